package courier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShipmentTrackingFormat(t *testing.T) {
	client := NewSimulatedClient("")

	shipment, err := client.CreateShipment(42, "Pathao")
	require.NoError(t, err)

	parts := strings.Split(shipment.TrackingNumber, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "PTH", parts[0])
	assert.Len(t, parts[1], 6, "six-digit serial")
	assert.Equal(t, "42", parts[2])
	assert.Equal(t, "Pickup Pending", shipment.Status)
}

func TestCreateShipmentCourierPrefixes(t *testing.T) {
	client := NewSimulatedClient("")

	cases := map[string]string{
		"Pathao":    "PTH-",
		"pathao":    "PTH-",
		"Steadfast": "SF-",
		"RedX":      "RDX-",
		"Manual":    "TRK-",
		"":          "TRK-",
	}
	for courierName, prefix := range cases {
		shipment, err := client.CreateShipment(1, courierName)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(shipment.TrackingNumber, prefix),
			"courier %q got %s", courierName, shipment.TrackingNumber)
	}
}

func TestCreateShipmentLabelURL(t *testing.T) {
	client := NewSimulatedClient("https://labels.internal")

	shipment, err := client.CreateShipment(7, "Steadfast")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(shipment.LabelURL, "https://labels.internal/"))
	assert.True(t, strings.HasSuffix(shipment.LabelURL, shipment.TrackingNumber+".pdf"))
}

func TestCreateShipmentDefaultLabelBase(t *testing.T) {
	client := NewSimulatedClient("")

	shipment, err := client.CreateShipment(7, "RedX")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(shipment.LabelURL, "https://courier.example.com/labels/"))
}

func TestCancelShipmentIsAccepted(t *testing.T) {
	client := NewSimulatedClient("")
	assert.NoError(t, client.CancelShipment("PTH-123456-42"))
}
