package navigation

import (
	"testing"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
)

func TestMenuFollowsConfig(t *testing.T) {
	cfg := &core.Config{PropostasClienteSource: core.ClienteSourceFixed, AuditEnabled: true}
	if got := len(Menu(cfg)); got != 4 {
		t.Fatalf("expected 4 items, got %d", got)
	}

	cfg = &core.Config{PropostasClienteSource: core.ClienteSourceParam}
	for _, it := range Menu(cfg) {
		if it.ID == PagePropostas || it.ID == PageAuditoria {
			t.Errorf("unexpected item %s in menu", it.ID)
		}
	}
}
