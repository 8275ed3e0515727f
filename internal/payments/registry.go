package payments

import (
	"fmt"
	"net/http"
	"time"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/configs"
)

// Registry maps each payment method to its adapter. Built exhaustively at
// startup; lookup of a parsed Method cannot miss.
type Registry struct {
	adapters map[Method]Adapter
}

func NewRegistry() *Registry {
	client := &http.Client{Timeout: 30 * time.Second}

	r := &Registry{adapters: make(map[Method]Adapter)}
	r.register(NewPesapalAdapter(config.LoadPesapalConfig(), client))
	r.register(NewDarajaAdapter(config.LoadDarajaConfig(), client))
	r.register(NewManualAdapter(MethodMpesaManual))
	r.register(NewManualAdapter(MethodBankTransfer))
	r.register(NewManualAdapter(MethodCash))
	return r
}

func (r *Registry) register(a Adapter) {
	r.adapters[a.Method()] = a
}

func (r *Registry) Adapter(m Method) (Adapter, error) {
	a, ok := r.adapters[m]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for method %q", m)
	}
	return a, nil
}
