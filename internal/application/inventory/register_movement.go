package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
func (uc *MovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	return uc.RegisterMovement(ctx, toInput(userID, in))
}

// UpdateMovementFromRequest igual que RegisterMovementFromRequest para PUT /movements/:id.
func (uc *MovementUseCase) UpdateMovementFromRequest(ctx context.Context, id, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	return uc.UpdateMovement(ctx, id, toInput(userID, in))
}

func toInput(userID string, in dto.RegisterMovementRequest) MovementInputDTO {
	return MovementInputDTO{
		UserID:    userID,
		ProductID: in.ProductID,
		Type:      in.MovementType,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
	}
}
