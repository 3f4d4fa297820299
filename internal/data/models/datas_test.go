package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPropostaRespostaFormats(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{"nula", `null`, nil},
		{"vazia", `""`, nil},
		{"so data", `"2024-05-01"`, ptr(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))},
		{"rfc3339", `"2026-03-01T10:00:00.000Z"`, ptr(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))},
		{"sem fuso", `"2026-03-01T10:00:00"`, ptr(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p Proposta
			if err := json.Unmarshal([]byte(`{"id":1,"preco":"10","resposta":`+tc.raw+`}`), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got := p.RespondidaEm()
			if tc.want == nil {
				if got != nil || p.Respondida() {
					t.Errorf("expected unanswered, got %v", got)
				}
				return
			}
			if got == nil || !got.Equal(*tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPropostaRespostaRejectsGarbage(t *testing.T) {
	var p Proposta
	if err := json.Unmarshal([]byte(`{"id":1,"resposta":"ontem"}`), &p); err == nil {
		t.Fatalf("expected error for unknown date format")
	}
}

func ptr(t time.Time) *time.Time { return &t }
