package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

// Customer worksheet layout:
//
//	A number | B name | C address | D phone | E seal number
const customerColumns = "A:E"

// CustomerSheet reads the subscriber registry from one worksheet.
type CustomerSheet struct {
	client    *Client
	worksheet string
	logger    *zap.Logger
}

// NewCustomerSheet builds the adapter for the named worksheet.
func NewCustomerSheet(client *Client, worksheet string, logger *zap.Logger) *CustomerSheet {
	if worksheet == "" {
		worksheet = "Clientes"
	}
	return &CustomerSheet{client: client, worksheet: worksheet, logger: logger}
}

// GetByNumber finds a subscriber by account number. Returns (nil, nil) when
// no row matches.
func (s *CustomerSheet) GetByNumber(ctx context.Context, number string) (*domain.Customer, error) {
	a1 := fmt.Sprintf("%s!%s", s.worksheet, customerColumns)
	rows, err := s.client.ReadRange(ctx, a1)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		customer, err := parseCustomerRow(row)
		if err != nil {
			s.logger.Warn("dropping unparseable customer row", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		if customer.Number == strings.TrimSpace(number) {
			return customer, nil
		}
	}
	return nil, nil
}

func parseCustomerRow(row []string) (*domain.Customer, error) {
	if len(row) < 2 {
		return nil, fmt.Errorf("expected at least 2 cells, got %d", len(row))
	}
	number := strings.TrimSpace(row[0])
	if number == "" {
		return nil, fmt.Errorf("empty customer number")
	}
	customer := &domain.Customer{
		Number: number,
		Name:   strings.TrimSpace(row[1]),
	}
	if len(row) > 2 {
		customer.Address = strings.TrimSpace(row[2])
	}
	if len(row) > 3 {
		customer.Phone = strings.TrimSpace(row[3])
	}
	if len(row) > 4 {
		customer.SealNumber = strings.TrimSpace(row[4])
	}
	return customer, nil
}
