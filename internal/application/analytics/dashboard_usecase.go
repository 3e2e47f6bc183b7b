// Package analytics contiene los casos de uso de reportes sobre el libro de movimientos
// y el tablero del inventario.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

const dashboardTopSKUs = 5 // número de SKUs en el widget del dashboard

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: el libro de movimientos y el catálogo de productos (solo lectura).
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	ledger      repository.MovementLedger
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(productRepo repository.ProductRepository, ledger repository.MovementLedger) *DashboardUseCase {
	return &DashboardUseCase{productRepo: productRepo, ledger: ledger, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres lecturas en paralelo:
//  1. movimientos de hoy
//  2. movimientos del mes (también alimentan el top de SKUs)
//  3. catálogo completo → valor del stock y productos bajo el punto de reorden
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().UTC()

	// ── Rangos de fecha (UTC) ──────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		today, month []*entity.StockMovement
		products     []*entity.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		today, err = uc.ledger.ListByDateRange(gctx, todayStart, todayEnd)
		if err != nil {
			return fmt.Errorf("dashboard: movimientos de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		month, err = uc.ledger.ListByDateRange(gctx, monthStart, todayEnd)
		if err != nil {
			return fmt.Errorf("dashboard: movimientos del mes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		products, err = uc.productRepo.List(gctx, repository.ProductFilter{})
		if err != nil {
			return fmt.Errorf("dashboard: productos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]*entity.Product, len(products))
	value := decimal.Zero
	low := 0
	for _, p := range products {
		byID[p.ID] = p
		value = value.Add(p.Price.Mul(decimal.NewFromInt(p.Quantity)))
		if p.IsLowStock() {
			low++
		}
	}

	return &dto.DashboardSummaryDTO{
		Today:         totals(today),
		Month:         totals(month),
		StockValue:    value.Round(2),
		ProductCount:  len(products),
		LowStockCount: low,
		TopSKUs:       topSKUs(month, byID, dashboardTopSKUs),
		DateLabel:     monthLabel(now),
	}, nil
}

func totals(list []*entity.StockMovement) dto.MovementTotalsDTO {
	t := dto.MovementTotalsDTO{Movements: len(list)}
	for _, m := range list {
		switch m.Kind {
		case entity.MovementIN, entity.MovementRETURN:
			t.UnitsIn += m.Quantity
		case entity.MovementOUT:
			t.UnitsOut += m.Quantity
		case entity.MovementADJUSTMENT:
			t.Adjustments++
		}
	}
	return t
}

// topSKUs ordena por unidades OUT desc y, a igualdad, por SKU. Omite productos ya eliminados.
func topSKUs(list []*entity.StockMovement, products map[string]*entity.Product, n int) []dto.TopSKUDTO {
	units := make(map[string]int64)
	for _, m := range list {
		if m.Kind == entity.MovementOUT {
			units[m.ProductID] += m.Quantity
		}
	}
	out := make([]dto.TopSKUDTO, 0, len(units))
	for id, u := range units {
		p, ok := products[id]
		if !ok {
			continue
		}
		out = append(out, dto.TopSKUDTO{ProductID: id, SKU: p.SKU, Name: p.Name, UnitsOut: u})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitsOut != out[j].UnitsOut {
			return out[i].UnitsOut > out[j].UnitsOut
		}
		return out[i].SKU < out[j].SKU
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
