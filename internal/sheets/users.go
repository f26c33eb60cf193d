package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

// User worksheet layout:
//
//	A id | B username | C display name | D password hash | E role | F active
const userColumns = "A:F"

// UserSheet reads staff accounts from one worksheet.
type UserSheet struct {
	client    *Client
	worksheet string
	logger    *zap.Logger
}

// NewUserSheet builds the adapter for the named worksheet.
func NewUserSheet(client *Client, worksheet string, logger *zap.Logger) *UserSheet {
	if worksheet == "" {
		worksheet = "Usuarios"
	}
	return &UserSheet{client: client, worksheet: worksheet, logger: logger}
}

// GetByUsername finds an account by username (case-insensitive).
func (s *UserSheet) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	a1 := fmt.Sprintf("%s!%s", s.worksheet, userColumns)
	rows, err := s.client.ReadRange(ctx, a1)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		user, err := parseUserRow(row)
		if err != nil {
			s.logger.Warn("dropping unparseable user row", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, nil
}

// GetByID finds an account by id.
func (s *UserSheet) GetByID(ctx context.Context, id string) (*domain.User, error) {
	a1 := fmt.Sprintf("%s!%s", s.worksheet, userColumns)
	rows, err := s.client.ReadRange(ctx, a1)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		user, err := parseUserRow(row)
		if err != nil {
			continue
		}
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func parseUserRow(row []string) (*domain.User, error) {
	if len(row) < 6 {
		return nil, fmt.Errorf("expected 6 cells, got %d", len(row))
	}
	id := strings.TrimSpace(row[0])
	username := strings.TrimSpace(row[1])
	if id == "" || username == "" {
		return nil, fmt.Errorf("empty id or username")
	}
	role := domain.UserRole(strings.ToUpper(strings.TrimSpace(row[4])))
	if role != domain.RoleAdmin && role != domain.RoleOperator {
		return nil, fmt.Errorf("unknown role %q", row[4])
	}
	return &domain.User{
		ID:           id,
		Username:     username,
		DisplayName:  strings.TrimSpace(row[2]),
		PasswordHash: strings.TrimSpace(row[3]),
		Role:         role,
		Active:       strings.EqualFold(strings.TrimSpace(row[5]), "true"),
		CreatedAt:    time.Time{},
	}, nil
}
