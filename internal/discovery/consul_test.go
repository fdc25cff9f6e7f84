package discovery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConsul implements the handful of agent endpoints the client uses.
type fakeConsul struct {
	lock         sync.Mutex
	registered   map[string]api.AgentServiceRegistration
	healthy      []*api.ServiceEntry
	deregistered []string
}

func (f *fakeConsul) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.lock.Lock()
	defer f.lock.Unlock()

	switch {
	case r.URL.Path == "/v1/agent/self":
		_, _ = w.Write([]byte(`{"Config":{},"Member":{}}`))
	case r.URL.Path == "/v1/agent/service/register":
		var reg api.AgentServiceRegistration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.registered[reg.ID] = reg
	case strings.HasPrefix(r.URL.Path, "/v1/agent/service/deregister/"):
		f.deregistered = append(f.deregistered, strings.TrimPrefix(r.URL.Path, "/v1/agent/service/deregister/"))
	case strings.HasPrefix(r.URL.Path, "/v1/health/service/"):
		name := strings.TrimPrefix(r.URL.Path, "/v1/health/service/")
		var out []*api.ServiceEntry
		for _, entry := range f.healthy {
			if entry.Service.Service == name {
				out = append(out, entry)
			}
		}
		if out == nil {
			out = []*api.ServiceEntry{}
		}
		_ = json.NewEncoder(w).Encode(out)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeConsul(t *testing.T) (*fakeConsul, *ConsulClient) {
	t.Helper()
	fake := &fakeConsul{registered: map[string]api.AgentServiceRegistration{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewConsulClient(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	return fake, c
}

func TestConsulClient_RegisterAndDeregister(t *testing.T) {
	fake, c := newFakeConsul(t)

	err := c.Register(ServiceConfig{
		Name:    "booking-service",
		ID:      "booking-service-1",
		Address: "10.0.0.5",
		Port:    8080,
		Tags:    []string{"api", "booking"},
	})
	require.NoError(t, err)

	reg, ok := fake.registered["booking-service-1"]
	require.True(t, ok)
	assert.Equal(t, "booking-service", reg.Name)
	assert.Equal(t, "10.0.0.5", reg.Address)
	assert.Equal(t, 8080, reg.Port)
	require.NotNil(t, reg.Check)
	assert.Equal(t, "http://10.0.0.5:8080/health", reg.Check.HTTP)

	require.NoError(t, c.Deregister("booking-service-1"))
	assert.Equal(t, []string{"booking-service-1"}, fake.deregistered)
}

func TestConsulClient_GetServiceURL(t *testing.T) {
	fake, c := newFakeConsul(t)
	fake.healthy = []*api.ServiceEntry{
		{
			Node:    &api.Node{Address: "10.0.0.9"},
			Service: &api.AgentService{Service: "inventory-service", Address: "", Port: 8081},
		},
	}

	url, err := c.GetServiceURL("inventory-service")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.9:8081", url)

	_, err = c.GetServiceURL("unknown-service")
	assert.Error(t, err)
}
