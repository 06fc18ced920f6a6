package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalTransitionTable(t *testing.T) {
	assert.True(t, CanTransition(ProposalSubmitted, ProposalApprovedByState))
	assert.True(t, CanTransition(ProposalSubmitted, ProposalRejectedByState))
	assert.True(t, CanTransition(ProposalApprovedByState, ProposalApprovedByMinistry))
	assert.True(t, CanTransition(ProposalApprovedByMinistry, ProposalCompleted))

	// no skipping the state hop, no resurrecting terminal states
	assert.False(t, CanTransition(ProposalSubmitted, ProposalApprovedByMinistry))
	assert.False(t, CanTransition(ProposalRejectedByState, ProposalApprovedByState))
	assert.False(t, CanTransition(ProposalRejectedByMinistry, ProposalApprovedByMinistry))
	assert.False(t, CanTransition(ProposalCompleted, ProposalSubmitted))
	assert.False(t, CanTransition(ProposalApprovedByState, ProposalCompleted))
}

func TestIsValidProposalStatus(t *testing.T) {
	for status := range ProposalTransitions {
		assert.True(t, IsValidProposalStatus(status))
	}
	assert.False(t, IsValidProposalStatus("ON_HOLD"))
	assert.False(t, IsValidProposalStatus("submitted"))
}

func TestProposalDocumentRoundTrip(t *testing.T) {
	var p Proposal
	p.EncodeDocuments([]ProposalDocument{
		{Name: "dpr.pdf", URL: "/uploads/x.pdf", Type: ".pdf", Size: 2048},
	})

	docs := p.DocumentList()
	require.Len(t, docs, 1)
	assert.Equal(t, "dpr.pdf", docs[0].Name)
	assert.EqualValues(t, 2048, docs[0].Size)
}
