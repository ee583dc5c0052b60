package money_test

import (
	"testing"

	"github.com/amirasaad/goldvault/pkg/domain/money"
)

// FuzzNewMoney checks that parsed amounts survive the minor unit round trip.
func FuzzNewMoney(f *testing.F) {
	f.Add("100")
	f.Add("-50.25")
	f.Add("0")
	f.Add("1e12")
	f.Add("0.001")
	f.Add("1e30")
	f.Add("1e100000000")
	f.Add("92233720368547758.08")
	f.Add("-1e-30")
	f.Fuzz(func(t *testing.T, s string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("NewMoney panicked: %v (input=%q)", r, s)
			}
		}()
		m, err := money.NewMoney(s)
		if err != nil {
			if len(err.Error()) > 200 {
				t.Errorf("error for %q is %d bytes", s, len(err.Error()))
			}
			return
		}
		if !money.NewMoneyFromMinorUnits(m.MinorUnits()).Equal(m) {
			t.Errorf("minor unit round trip changed %q", s)
		}
	})
}

// FuzzGramsFor checks that conversion never credits more gold than was paid for.
func FuzzGramsFor(f *testing.F) {
	f.Add(int64(50000), int64(2000000))
	f.Add(int64(1), int64(3))
	f.Fuzz(func(t *testing.T, cents, priceCents int64) {
		if cents < 0 || priceCents <= 0 || cents > 1e12 || priceCents > 1e12 {
			return
		}
		p, err := money.NewPriceFromMinorUnits(priceCents)
		if err != nil {
			t.Fatalf("price: %v", err)
		}
		cash := money.NewMoneyFromMinorUnits(cents)
		g := p.GramsFor(cash)
		if g.Decimal().Mul(p.Decimal()).GreaterThan(cash.Decimal()) {
			t.Errorf("credited %s g for %s at %s", g, cash, p)
		}
	})
}
