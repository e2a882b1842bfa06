package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/recon/internal/jsonvalue"
)

func TestParseScanType(t *testing.T) {
	testCases := []struct {
		input   string
		want    ScanType
		wantErr bool
	}{
		{input: "ip", want: ScanTypeIP},
		{input: "DNS", want: ScanTypeDNS},
		{input: " headers ", want: ScanTypeHeaders},
		{input: "ssl", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseScanType(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedScanType)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScanTypeMetadata(t *testing.T) {
	assert.Equal(t, "IP Lookup", ScanTypeIP.Label())
	assert.Equal(t, "Query DNS record entries", ScanTypeDNS.Description())
	assert.Equal(t, "Inspect HTTP security headers", ScanTypeHeaders.Description())
	assert.Empty(t, ScanType("bogus").Label())
	assert.False(t, ScanType("bogus").Valid())

	assert.Equal(t, []string{"ip", "dns", "headers"}, ScanTypeNames())
	assert.Len(t, ScanTypes(), 3)
}

func TestResourcePath(t *testing.T) {
	assert.Equal(t, "/ip/example.com", ScanTypeIP.ResourcePath("example.com"))
	assert.Equal(t, "/dns/example.com", ScanTypeDNS.ResourcePath("example.com"))
	assert.Equal(t, "/headers/example.com", ScanTypeHeaders.ResourcePath("example.com"))
}

func TestScanResultInvariant(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 30, 0, 123000000, time.FixedZone("EST", -5*3600))

	ok := NewSuccess("example.com", ScanTypeIP, jsonvalue.NewObject(), at)
	require.NoError(t, ok.Validate())
	assert.False(t, ok.Failed())
	assert.Equal(t, "2024-01-15T15:30:00.123Z", ok.Timestamp)

	emptyData := NewSuccess("example.com", ScanTypeIP, nil, at)
	require.NoError(t, emptyData.Validate())
	assert.NotNil(t, emptyData.Data)

	failed := NewFailure("example.com", ScanTypeDNS, "boom", at)
	require.NoError(t, failed.Validate())
	assert.True(t, failed.Failed())
	assert.Nil(t, failed.Data)

	blank := NewFailure("example.com", ScanTypeDNS, "  ", at)
	assert.Equal(t, UnexpectedErrorMessage, blank.Error)

	both := &ScanResult{Data: jsonvalue.NewObject(), Error: "x"}
	assert.ErrorIs(t, both.Validate(), ErrResultBothSet)

	neither := &ScanResult{}
	assert.ErrorIs(t, neither.Validate(), ErrResultNoneSet)
}

func TestScanResultJSON(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	data, err := jsonvalue.ParseObject([]byte(`{"ip":"93.184.216.34"}`))
	require.NoError(t, err)

	out, err := json.Marshal(NewSuccess("example.com", ScanTypeIP, data, at))
	require.NoError(t, err)
	assert.JSONEq(t, `{"domain":"example.com","scan_type":"ip","data":{"ip":"93.184.216.34"},"timestamp":"2024-01-15T10:30:00.000Z"}`, string(out))

	out, err = json.Marshal(NewFailure("", ScanTypeIP, "Domain is required", at))
	require.NoError(t, err)
	assert.JSONEq(t, `{"domain":"","scan_type":"ip","error":"Domain is required","timestamp":"2024-01-15T10:30:00.000Z"}`, string(out))
}
