package discovery

import (
	"fmt"

	"github.com/google/uuid"
	consul "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

// Registration is a handle to a service registered with Consul.
type Registration struct {
	client    *consul.Client
	serviceID string
	logger    *zerolog.Logger
}

// Register announces the service to the local Consul agent with an HTTP
// health check against healthPath. It returns a handle used to deregister on
// shutdown.
func Register(logger *zerolog.Logger, serviceName, host string, port int, healthPath string) (*Registration, error) {
	client, err := consul.NewClient(consul.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	serviceID := fmt.Sprintf("%s-%s", serviceName, uuid.NewString())

	registration := &consul.AgentServiceRegistration{
		ID:      serviceID,
		Name:    serviceName,
		Address: host,
		Port:    port,
		Check: &consul.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d%s", host, port, healthPath),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return nil, fmt.Errorf("register service with consul: %w", err)
	}

	logger.Info().Str("service_id", serviceID).Msg("registered service with consul")

	return &Registration{
		client:    client,
		serviceID: serviceID,
		logger:    logger,
	}, nil
}

// Deregister removes the service from Consul.
func (r *Registration) Deregister() {
	if err := r.client.Agent().ServiceDeregister(r.serviceID); err != nil {
		r.logger.Error().Err(err).Msg("failed to deregister service from consul")
		return
	}

	r.logger.Info().Str("service_id", r.serviceID).Msg("deregistered service from consul")
}
