package entity

import (
	"testing"
	"time"

	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

func TestFormFromProduct(t *testing.T) {
	tests := []struct {
		name     string
		category string
		wantCat  string
		wantCust string
	}{
		{"standard", "Snacks", "Snacks", ""},
		{"custom text", "Lácteos", enum.CustomCategory, "Lácteos"},
		{"literal otros", enum.CustomCategory, enum.CustomCategory, enum.CustomCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := FormFromProduct(Product{Code: "1", Name: "x", Category: tt.category, Price: 1, Stock: 1})
			assert.Equal(t, tt.wantCat, form.Category)
			assert.Equal(t, tt.wantCust, form.CustomCategory)
		})
	}
}

func TestEffectiveCategory(t *testing.T) {
	form := ProductForm{Category: enum.CustomCategory, CustomCategory: "Lácteos"}
	assert.Equal(t, "Lácteos", form.EffectiveCategory())

	form.Category = "Aseo"
	assert.Equal(t, "Aseo", form.EffectiveCategory())
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "No especificada", (&Product{}).CategoryLabel())
	assert.Equal(t, "Grasas", (&Product{Category: "Grasas"}).CategoryLabel())
}

func TestUserFormValidate(t *testing.T) {
	form := UserForm{FirstName: "Ana", LastName: "Pérez", Email: "ana@tienda.ec", Role: enum.RoleEmployee}
	assert.Error(t, form.Validate(true), "password required on create")
	assert.NoError(t, form.Validate(false))

	form.Password = "secret1"
	assert.NoError(t, form.Validate(true))

	form.Role = enum.RoleSuperAdmin
	assert.Error(t, form.Validate(true))
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, (&Session{}).IsExpired(now))
	assert.True(t, (&Session{ExpiresAt: now}).IsExpired(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Minute)}).IsExpired(now))
}

func TestNewTicket(t *testing.T) {
	sale := NewPendingSale()
	_ = sale.AddLine(Product{Code: "A", Name: "Pan", Price: 0.25, Stock: 10}, 4)

	ticket := NewTicket(TicketHeader{StoreName: "Tienda"},
		FinalizedSale{ID: "S1", Lines: sale.Snapshot(), Total: sale.GrandTotal, CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)},
		"Ana")

	assert.Equal(t, "01/05/2024 09:30", ticket.Date)
	assert.Len(t, ticket.Items, 1)
	assert.Equal(t, "1.00", ticket.Total.StringFixed(2))
}
