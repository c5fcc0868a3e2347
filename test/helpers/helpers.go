// test/helpers/helpers.go
package helpers

import (
	"log/slog"
	"os"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/candyline/sweetshop/internal/core/domain"
)

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// CreateTestSweet returns a valid sweet, optionally modified by overrides
func CreateTestSweet(overrides ...func(*domain.Sweet)) domain.Sweet {
	sweet := domain.Sweet{
		ID:       1,
		Name:     "Gulab Jamun",
		Category: "Indian",
		Price:    decimal.NewFromFloat(3.50),
		Quantity: 12,
	}
	for _, override := range overrides {
		override(&sweet)
	}
	return sweet
}

// CreateTestCatalog returns a small catalog covering categories, price
// spread and an out-of-stock item
func CreateTestCatalog() []domain.Sweet {
	return []domain.Sweet{
		CreateTestSweet(),
		CreateTestSweet(func(s *domain.Sweet) {
			s.ID = 2
			s.Name = "Ladoo"
			s.Price = decimal.NewFromFloat(2.50)
			s.Quantity = 0
		}),
		CreateTestSweet(func(s *domain.Sweet) {
			s.ID = 3
			s.Name = "Chocolate Truffle"
			s.Category = "Chocolate"
			s.Price = decimal.NewFromFloat(5.75)
			s.Quantity = 4
		}),
	}
}

// CreateTestSession returns a logged-in session, optionally modified
func CreateTestSession(overrides ...func(*domain.Session)) *domain.Session {
	sess := &domain.Session{
		Token: "test-token",
		User: domain.User{
			Username: "priya",
			Email:    "priya@example.com",
			IsAdmin:  false,
		},
	}
	for _, override := range overrides {
		override(sess)
	}
	return sess
}
