package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"gymops/internal/model"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestPaymentValidate(t *testing.T) {
	cases := []struct {
		name    string
		payment Payment
		valid   bool
	}{
		{"cash", Payment{Method: model.PayCash, CashAmount: d("50.00")}, true},
		{"electronic", Payment{Method: model.PayElectronic, ElectronicAmount: d("50.00")}, true},
		{"mixed", Payment{Method: model.PayMixed, CashAmount: d("30.00"), ElectronicAmount: d("20.00")}, true},

		{"cash with zero amount", Payment{Method: model.PayCash}, false},
		{"cash carrying electronic", Payment{Method: model.PayCash, CashAmount: d("50.00"), ElectronicAmount: d("10.00")}, false},
		{"electronic with zero amount", Payment{Method: model.PayElectronic}, false},
		{"electronic carrying cash", Payment{Method: model.PayElectronic, CashAmount: d("10.00"), ElectronicAmount: d("50.00")}, false},
		{"mixed missing cash", Payment{Method: model.PayMixed, ElectronicAmount: d("50.00")}, false},
		{"mixed missing electronic", Payment{Method: model.PayMixed, CashAmount: d("50.00")}, false},
		{"unknown method", Payment{Method: "credit", CashAmount: d("50.00")}, false},
		{"empty method", Payment{CashAmount: d("50.00")}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.payment.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPaymentCashPortion(t *testing.T) {
	assert.True(t, Payment{Method: model.PayCash, CashAmount: d("50.00")}.CashPortion().Equal(d("50.00")))
	assert.True(t, Payment{Method: model.PayMixed, CashAmount: d("30.00"), ElectronicAmount: d("20.00")}.CashPortion().Equal(d("30.00")))
	// Electronic money never reaches the drawer.
	assert.True(t, Payment{Method: model.PayElectronic, ElectronicAmount: d("50.00")}.CashPortion().IsZero())
}

func TestPaymentTotal(t *testing.T) {
	assert.True(t, Payment{Method: model.PayMixed, CashAmount: d("30.00"), ElectronicAmount: d("20.00")}.Total().Equal(d("50.00")))
	assert.True(t, Payment{Method: model.PayCash, CashAmount: d("75.50")}.Total().Equal(d("75.50")))
}
