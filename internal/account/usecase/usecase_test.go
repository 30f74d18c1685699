package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/account"
	"github.com/fekuna/omnipos-sales-service/internal/account/dto"
	"github.com/fekuna/omnipos-sales-service/internal/account/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/memstore"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
)

func newAccountUseCase(t *testing.T, limit string) (account.UseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	now := time.Now()
	err := store.Customers().Create(context.Background(), &model.Customer{
		BaseModel:      model.BaseModel{ID: "cust-1", CreatedAt: now, UpdatedAt: now},
		Business:       model.BusinessLusqtoff,
		Code:           "C1",
		Name:           "Obras del Sur",
		Active:         true,
		CreditLimit:    money.MustParse(limit),
		CurrentBalance: money.Zero,
	})
	if err != nil {
		t.Fatal(err)
	}
	uc := usecase.NewAccountUseCase(store.Accounts(), store.Customers(), cache.NewLocalLocker(), nil, usecase.Options{}, logger.NewNop())
	return uc, store
}

func manual(amount, description string) *dto.ManualMovementInput {
	return &dto.ManualMovementInput{
		Business:    model.BusinessLusqtoff,
		CustomerID:  "cust-1",
		Amount:      money.MustParse(amount),
		Description: description,
		UserID:      "cashier-1",
	}
}

func TestManualMovementsApplySign(t *testing.T) {
	uc, store := newAccountUseCase(t, "1000")
	ctx := context.Background()

	charge, err := uc.RecordCharge(ctx, manual("500", ""))
	if err != nil {
		t.Fatalf("RecordCharge: %v", err)
	}
	if charge.Type != model.MovementCredit || !charge.Amount.Equal(money.MustParse("500")) || charge.Description != account.DefaultChargeDescription {
		t.Errorf("charge = %s %s %q", charge.Type, charge.Amount, charge.Description)
	}

	payment, err := uc.RecordPayment(ctx, manual("200", "Transferencia"))
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if payment.Type != model.MovementPayment || !payment.Amount.Equal(money.MustParse("-200")) {
		t.Errorf("payment = %s %s", payment.Type, payment.Amount)
	}
	if payment.Description != "Transferencia" || !payment.BalanceAfter.Equal(money.MustParse("300")) {
		t.Errorf("payment = %q -> %s", payment.Description, payment.BalanceAfter)
	}

	cu, _ := store.Customers().FindByID(ctx, "cust-1")
	if !cu.CurrentBalance.Equal(money.MustParse("300")) {
		t.Fatalf("balance = %s, want 300", cu.CurrentBalance)
	}

	// overpayment leaves the customer in favour
	if _, err := uc.RecordPayment(ctx, manual("500", "")); err != nil {
		t.Fatal(err)
	}
	st, err := uc.GetCreditStatus(ctx, model.BusinessLusqtoff, "cust-1")
	if err != nil {
		t.Fatal(err)
	}
	if !st.Balance.Equal(money.MustParse("-200")) || st.State != account.CreditOK {
		t.Errorf("credit = %s %s", st.Balance, st.State)
	}
}

func TestManualMovementRejectsBadInput(t *testing.T) {
	uc, store := newAccountUseCase(t, "1000")
	ctx := context.Background()

	wrongBusiness := manual("10", "")
	wrongBusiness.Business = model.BusinessBendeckTools

	tests := []struct {
		name  string
		input *dto.ManualMovementInput
		want  error
	}{
		{"zero amount", manual("0", ""), account.ErrInvalidAmount},
		{"negative amount", manual("-5", ""), account.ErrInvalidAmount},
		{"other business", wrongBusiness, account.ErrCustomerNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.RecordPayment(ctx, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	missing := manual("10", "")
	missing.CustomerID = ""
	if _, err := uc.RecordCharge(ctx, missing); err == nil {
		t.Fatal("expected a validation error for a missing customer")
	}

	history, _ := store.Accounts().History(ctx, "cust-1")
	if len(history) != 0 {
		t.Fatalf("rejected input wrote %d movements", len(history))
	}
}

func TestVerifyLedgerAfterMovements(t *testing.T) {
	uc, _ := newAccountUseCase(t, "0")
	ctx := context.Background()

	for _, amount := range []string{"100.10", "49.90"} {
		if _, err := uc.RecordCharge(ctx, manual(amount, "")); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := uc.RecordPayment(ctx, manual("50", "")); err != nil {
		t.Fatal(err)
	}

	rep, err := uc.VerifyLedger(ctx, model.BusinessLusqtoff, "cust-1")
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Consistent || rep.Movements != 3 || !rep.ComputedBalance.Equal(money.MustParse("100")) {
		t.Fatalf("report = %+v", rep)
	}

	st, _ := uc.GetCreditStatus(ctx, model.BusinessLusqtoff, "cust-1")
	if st.State != account.CreditNoCredit {
		t.Errorf("state = %s, want no_credit", st.State)
	}
}

func TestListMovementsNewestFirst(t *testing.T) {
	uc, _ := newAccountUseCase(t, "1000")
	ctx := context.Background()

	_, _ = uc.RecordCharge(ctx, manual("10", "primero"))
	_, _ = uc.RecordCharge(ctx, manual("20", "segundo"))

	list, total, err := uc.ListMovements(ctx, model.BusinessLusqtoff, &dto.MovementFilters{CustomerID: "cust-1"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || list[0].Description != "segundo" {
		t.Fatalf("got %d movements, first %q", total, list[0].Description)
	}

	if _, _, err := uc.ListMovements(ctx, model.BusinessBendeckTools, &dto.MovementFilters{CustomerID: "cust-1"}); !errors.Is(err, account.ErrCustomerNotFound) {
		t.Fatalf("other business err = %v", err)
	}
}
