package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Name  string          `validate:"required"`
	Price decimal.Decimal `validate:"gte=0"`
	Qty   int             `validate:"gt=0"`
}

func TestValidateStruct(t *testing.T) {
	tests := map[string]struct {
		in      priced
		wantTag string
	}{
		"valid":          {in: priced{Name: "Apple", Price: decimal.NewFromInt(120), Qty: 1}},
		"zero price ok":  {in: priced{Name: "Free sample", Price: decimal.Zero, Qty: 1}},
		"missing name":   {in: priced{Price: decimal.NewFromInt(1), Qty: 1}, wantTag: "required"},
		"negative price": {in: priced{Name: "Apple", Price: decimal.NewFromFloat(-0.5), Qty: 1}, wantTag: "gte"},
		"zero quantity":  {in: priced{Name: "Apple", Price: decimal.NewFromInt(1)}, wantTag: "gt"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			errs := ValidateStruct(&tt.in)
			if tt.wantTag == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.wantTag, errs[0].Tag)
			assert.Contains(t, Message(errs), tt.wantTag)
		})
	}
}
