package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"dentlab-backoffice/internal/core/domain"
)

func TestTruncateNotes(t *testing.T) {
	testCases := []struct {
		name   string
		notes  string
		budget int
		want   string
	}{
		{"fits", "Color A2", 20, "Color A2"},
		{"exact budget", "abcde", 5, "abcde"},
		{"cut with ellipsis", "abcdefgh", 5, "abcd…"},
		{"counts runes", "ñññññññ", 4, "ñññ…"},
		{"trims before ellipsis", "abc defgh", 5, "abc…"},
		{"no budget", "anything", 0, "anything"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateNotes(tc.notes, tc.budget)
			if got != tc.want {
				t.Errorf("TruncateNotes(%q, %d) = %q, want %q", tc.notes, tc.budget, got, tc.want)
			}
			if tc.budget > 0 && utf8.RuneCountInString(got) > tc.budget {
				t.Errorf("result exceeds budget: %q", got)
			}
		})
	}
}

func TestSlipRender(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	drPrincipal, doctor := env.addDoctor(t, "dr.slip", domain.CategoryVIP)

	created, err := env.order.Create(ctx, drPrincipal, &CreateOrderInput{
		Patient:     "María José Pérez",
		ServiceName: "Corona Zirconio",
		Spec:        "Pieza 11, color A2",
		Notes:       strings.Repeat("Ajustar contacto oclusal. ", 30),
	})
	if err != nil {
		t.Fatal(err)
	}
	order, err := env.orders.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}

	slips := NewSlipService(env.lab)
	slip := slips.BuildSlip(order)
	if slip.Doctor != doctor.Name || slip.OrderNumber != order.OrderNumber {
		t.Errorf("unexpected slip header: %+v", slip)
	}
	if slip.Price != formatMoney(187000) {
		t.Errorf("slip price %q", slip.Price)
	}
	if n := utf8.RuneCountInString(slip.Notes); n > env.lab.Slip.NotesBudget {
		t.Errorf("notes not truncated: %d runes", n)
	}

	pdf, err := slips.Render(order)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output is not a PDF document")
	}
}
