package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProposalWellFormed(t *testing.T) {
	raw := []byte(`[
		{"date":"2025-08-04","assignments":[{"guideId":1,"role":"regular"},{"guideId":2,"role":"overlap"}],"rationale":"spread"},
		{"date":"2025-08-05","assignments":[{"guideId":3,"role":"regular"}]}
	]`)

	proposal, err := DecodeProposal(raw, 2025, time.August)
	require.NoError(t, err)
	require.Len(t, proposal.Days, 2)
	assert.Empty(t, proposal.Warnings)

	first := proposal.Days[0]
	assert.Equal(t, date(2025, time.August, 4), first.Date)
	assert.Equal(t, "spread", first.Rationale)
	require.Len(t, first.Slots, 2)
	assert.Equal(t, Slot{GuideID: 1, Role: RoleRegular}, first.Slots[0])
}

func TestDecodeProposalRejectsBadFields(t *testing.T) {
	raw := []byte(`[
		{"date":"not-a-date","assignments":[{"guideId":1,"role":"regular"}]},
		{"date":"2025-09-01","assignments":[{"guideId":1,"role":"regular"}]},
		{"date":"2025-08-04","assignments":[{"guideId":0,"role":"regular"},{"guideId":2,"role":"manager"},{"guideId":3,"role":"overlap"}]}
	]`)

	proposal, err := DecodeProposal(raw, 2025, time.August)
	require.NoError(t, err)
	require.Len(t, proposal.Days, 1)
	require.Len(t, proposal.Days[0].Slots, 1)
	assert.Equal(t, int64(3), proposal.Days[0].Slots[0].GuideID)

	kinds := make(map[ViolationKind]int)
	for _, w := range proposal.Warnings {
		kinds[w.Kind]++
	}
	assert.Equal(t, 3, kinds[ViolationMalformed]) // bad date, out-of-month, zero guide id
	assert.Equal(t, 1, kinds[ViolationUnknownRole])
}

func TestDecodeProposalDeduplicatesDates(t *testing.T) {
	raw := []byte(`[
		{"date":"2025-08-04","assignments":[{"guideId":1,"role":"regular"}]},
		{"date":"2025-08-04","assignments":[{"guideId":2,"role":"regular"}]}
	]`)

	proposal, err := DecodeProposal(raw, 2025, time.August)
	require.NoError(t, err)
	require.Len(t, proposal.Days, 1)
	assert.Equal(t, int64(1), proposal.Days[0].Slots[0].GuideID)
}

func TestDecodeProposalTrailingGarbage(t *testing.T) {
	raw := []byte(`[{"date":"2025-08-04","assignments":[{"guideId":1,"role":"regular"}]}] I hope this helps!`)

	proposal, err := DecodeProposal(raw, 2025, time.August)
	require.NoError(t, err)
	require.Len(t, proposal.Days, 1)
}

func TestDecodeProposalTruncatedArray(t *testing.T) {
	// The payload breaks off mid-object; complete objects are recovered.
	raw := []byte(`[{"date":"2025-08-04","assignments":[{"guideId":1,"role":"regular"}]},{"date":"2025-08-05","assignments":[{"guideId":2,"ro`)

	proposal, err := DecodeProposal(raw, 2025, time.August)
	require.NoError(t, err)
	require.Len(t, proposal.Days, 1)
	assert.Equal(t, date(2025, time.August, 4), proposal.Days[0].Date)
}

func TestDecodeProposalOverEscapedQuotes(t *testing.T) {
	raw := []byte(`[{\"date\":\"2025-08-04\",\"assignments\":[{\"guideId\":1,\"role\":\"regular\"}]}]`)

	proposal, err := DecodeProposal(raw, 2025, time.August)
	require.NoError(t, err)
	require.Len(t, proposal.Days, 1)
	assert.Equal(t, int64(1), proposal.Days[0].Slots[0].GuideID)
}

func TestDecodeProposalUnrepairable(t *testing.T) {
	_, err := DecodeProposal([]byte(`the schedule looks great`), 2025, time.August)
	require.Error(t, err)

	_, err = DecodeProposal(nil, 2025, time.August)
	require.Error(t, err)
}
