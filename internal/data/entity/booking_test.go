package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    BookingStatus
		wantErr bool
	}{
		{in: "Pending", want: BookingStatusPending},
		{in: "Paid", want: BookingStatusPaid},
		{in: "Cancelled", want: BookingStatusCancelled},
		{in: "pending", wantErr: true},
		{in: "Refunded", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBookingStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBookingStatusActive(t *testing.T) {
	assert.True(t, BookingStatusPending.Active())
	assert.True(t, BookingStatusPaid.Active())
	assert.False(t, BookingStatusCancelled.Active())
	assert.False(t, BookingStatus(0).Active())
}

func TestBookingStatusJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Status BookingStatus `json:"status"`
	}{BookingStatusPaid})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Paid"}`, string(out))

	var in struct {
		Status BookingStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Cancelled"}`), &in))
	assert.Equal(t, BookingStatusCancelled, in.Status)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"Expired"}`), &in))

	_, err = json.Marshal(struct{ S BookingStatus }{BookingStatus(9)})
	assert.Error(t, err)
}

func TestBookingStatusScanValue(t *testing.T) {
	var s BookingStatus
	require.NoError(t, s.Scan("Pending"))
	assert.Equal(t, BookingStatusPending, s)
	require.NoError(t, s.Scan([]byte("Paid")))
	assert.Equal(t, BookingStatusPaid, s)
	assert.Error(t, s.Scan(int64(1)))

	v, err := BookingStatusCancelled.Value()
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", v)

	_, err = BookingStatus(0).Value()
	assert.Error(t, err)
}
