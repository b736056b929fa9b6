package clients

import (
	"github.com/axalapp/claims-api-service/internal/clients/oracle"
	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/types"
)

type Clients struct {
	Oracle oracle.Adapter
	// Only set in simulated mode, the caller wires its resolution handler
	Simulated *oracle.SimulatedOracle
}

func New(cfg *config.Config) *Clients {
	if cfg.Arbitration.Mode == config.ArbitrationModeSimulated {
		sim := oracle.NewSimulatedOracle(types.Outcome(cfg.Arbitration.SimulatedOutcome))
		return &Clients{
			Oracle:    sim,
			Simulated: sim,
		}
	}

	return &Clients{
		Oracle: oracle.NewGatewayClient(&cfg.Arbitration),
	}
}
