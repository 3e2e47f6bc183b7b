package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// salesWindowDays ventana de salidas usada para priorizar la reposición.
const salesWindowDays = 90

// ReplenishmentUseCase genera la lista de reposición a partir de los productos en stock bajo.
// Prioriza con el volumen de salidas (OUT) de los últimos 90 días según el libro.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	ledger      repository.MovementLedger
	now         Clock
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, ledger repository.MovementLedger) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, ledger: ledger, now: time.Now}
}

// GenerateReplenishmentList devuelve los productos activos en o bajo su punto de reorden con la
// cantidad sugerida para llegar a 1.5 veces el punto de reorden, ordenados por prioridad.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Productos en o bajo el punto de reorden
	low, err := uc.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, surface("listar stock bajo", err)
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Salidas por producto en la ventana
	end := uc.now().UTC()
	start := end.AddDate(0, 0, -salesWindowDays)
	movements, err := uc.ledger.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, surface("listar movimientos por fecha", err)
	}
	unitsOut := make(map[string]int64, len(low))
	for _, m := range movements {
		if m.Kind == entity.MovementOUT {
			unitsOut[m.ProductID] += m.Quantity
		}
	}

	// 3. Sugerencias
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		ideal := (p.ReorderLevel*3 + 1) / 2
		suggested := ideal - p.Quantity
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:         p.ID,
			SKU:               p.SKU,
			ProductName:       p.Name,
			CurrentStock:      p.Quantity,
			ReorderLevel:      p.ReorderLevel,
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
			UnitsOutLastDays:  unitsOut[p.ID],
		})
	}

	// 4. Mayor volumen de salidas primero; desempate por mayor déficit.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.UnitsOutLastDays != b.UnitsOutLastDays {
			return a.UnitsOutLastDays > b.UnitsOutLastDays
		}
		return a.ReorderLevel-a.CurrentStock > b.ReorderLevel-b.CurrentStock
	})

	// 5. Prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
