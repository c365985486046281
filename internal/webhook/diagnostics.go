package webhook

import "context"

// Diagnostics reports whether deliveries reach the gateway.
type Diagnostics struct {
	events     *EventStorage
	simulation *Simulation
}

func NewDiagnostics(events *EventStorage, simulation *Simulation) *Diagnostics {
	return &Diagnostics{events: events, simulation: simulation}
}

func (d *Diagnostics) LastEvent(ctx context.Context) (*LastEvent, error) {
	return d.events.Get(ctx)
}

func (d *Diagnostics) Simulation(ctx context.Context) (*SimulationStatus, error) {
	return d.simulation.Status(ctx)
}

// Simulate requests a new test event. A failed request still returns the
// stored failed status along with the error.
func (d *Diagnostics) Simulate(ctx context.Context, webhookID string) (*SimulationStatus, error) {
	return d.simulation.Start(ctx, webhookID)
}
