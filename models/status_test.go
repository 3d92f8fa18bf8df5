package models

import "testing"

func TestNewStatus(t *testing.T) {
	cases := []struct {
		name    string
		kind    StatusKind
		custom  string
		wantErr bool
	}{
		{"status conhecido", StatusInProgress, "", false},
		{"custom com rótulo", StatusCustom, "aguardando peças", false},
		{"custom sem rótulo", StatusCustom, "", true},
		{"rótulo em status conhecido", StatusOnHold, "algo", true},
		{"kind desconhecido", StatusKind("blablabla"), "", true},
		{"kind vazio", StatusKind(""), "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, err := NewStatus(tc.kind, tc.custom)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("NewStatus(%q, %q): esperava erro, obteve %+v", tc.kind, tc.custom, status)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewStatus(%q, %q): erro inesperado: %v", tc.kind, tc.custom, err)
			}
			if status.Kind != tc.kind || status.Custom != tc.custom {
				t.Errorf("NewStatus devolveu %+v", status)
			}
		})
	}
}

func TestStatusLabel(t *testing.T) {
	known := Status{Kind: StatusTesting}
	if known.Label() != "testing" {
		t.Errorf("Label de status conhecido: %q", known.Label())
	}

	custom := Status{Kind: StatusCustom, Custom: "aguardando fornecedor"}
	if custom.Label() != "aguardando fornecedor" {
		t.Errorf("Label de status custom: %q", custom.Label())
	}
}

func TestStatusTerminal(t *testing.T) {
	// Somente verified encerra o ciclo de vida; rejected volta para in_progress
	for kind, wantTerminal := range map[StatusKind]bool{
		StatusVerified:        true,
		StatusRejected:        false,
		StatusCompleted:       false,
		StatusPendingApproval: false,
		StatusNotStarted:      false,
	} {
		got := Status{Kind: kind}.IsTerminal()
		if got != wantTerminal {
			t.Errorf("IsTerminal(%s) = %v, esperava %v", kind, got, wantTerminal)
		}
	}
}

func TestStatusEquals(t *testing.T) {
	a := Status{Kind: StatusCustom, Custom: "x"}
	b := Status{Kind: StatusCustom, Custom: "y"}
	if a.Equals(b) {
		t.Error("status custom com rótulos diferentes não deveriam ser iguais")
	}
	if !a.Equals(Status{Kind: StatusCustom, Custom: "x"}) {
		t.Error("status idênticos deveriam ser iguais")
	}
}
