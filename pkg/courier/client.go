// Package courier wraps shipment booking with third-party couriers. The
// default client simulates the courier APIs: it produces realistic tracking
// numbers and label URLs without a network call, and real integrations plug in
// behind the same interface.
package courier

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Shipment struct {
	TrackingNumber string `json:"tracking_number"`
	LabelURL       string `json:"label_url"`
	Status         string `json:"status"`
}

type Client interface {
	CreateShipment(orderID uint, courierName string) (*Shipment, error)
	CancelShipment(trackingNumber string) error
}

type simulatedClient struct {
	labelBaseURL string
	mu           sync.Mutex
	rng          *rand.Rand
}

func NewSimulatedClient(labelBaseURL string) Client {
	if labelBaseURL == "" {
		labelBaseURL = "https://courier.example.com/labels"
	}
	return &simulatedClient{
		labelBaseURL: labelBaseURL,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *simulatedClient) CreateShipment(orderID uint, courierName string) (*Shipment, error) {
	prefix := trackingPrefix(courierName)

	c.mu.Lock()
	serial := c.rng.Intn(900000) + 100000
	c.mu.Unlock()

	trackingNumber := fmt.Sprintf("%s-%d-%d", prefix, serial, orderID)
	labelToken := uuid.NewString()

	return &Shipment{
		TrackingNumber: trackingNumber,
		LabelURL:       fmt.Sprintf("%s/%s/%s.pdf", c.labelBaseURL, labelToken, trackingNumber),
		Status:         "Pickup Pending",
	}, nil
}

func (c *simulatedClient) CancelShipment(trackingNumber string) error {
	return nil
}

func trackingPrefix(courierName string) string {
	switch strings.ToLower(courierName) {
	case "pathao":
		return "PTH"
	case "steadfast":
		return "SF"
	case "redx":
		return "RDX"
	}
	return "TRK"
}
