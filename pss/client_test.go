package pss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const researchDesignsXML = `<?xml version="1.0" encoding="utf-8"?>
<ResearchService>
  <ListAllResearchDesigns>
    <ResearchDesigns>
      <ResearchDesign ResearchDesignId="1" ResearchName="Advanced Training" ResearchDescription="Trains crew faster." StarbuxCost="500" GasCost="0" ResearchTime="3600" RequiredLabLevel="2" RequiredResearchDesignId="0" />
      <ResearchDesign ResearchDesignId="2" ResearchName="Expert Training" ResearchDescription="Trains crew even faster." StarbuxCost="0" GasCost="25000" ResearchTime="90000" RequiredLabLevel="5" RequiredResearchDesignId="1" />
    </ResearchDesigns>
  </ListAllResearchDesigns>
</ResearchService>`

func TestClient_ResearchDesigns_DecodesCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ResearchService/ListAllResearchDesigns2", r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("languageKey"))
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(researchDesignsXML))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	designs, err := client.ResearchDesigns(context.Background())
	require.NoError(t, err)
	require.Len(t, designs, 2)

	advanced := designs["1"]
	require.NotNil(t, advanced)
	assert.Equal(t, "Advanced Training", advanced.Name)
	assert.Equal(t, int64(500), advanced.StarbuxCost)
	assert.Equal(t, int64(3600), advanced.ResearchTimeSeconds)
	assert.Equal(t, 2, advanced.RequiredLabLevel)
	assert.False(t, advanced.HasParent())

	expert := designs["2"]
	require.NotNil(t, expert)
	assert.Equal(t, int64(25000), expert.GasCost)
	assert.True(t, expert.HasParent())
	assert.Equal(t, "1", expert.RequiredResearchDesignID)
}

func TestClient_ResearchDesigns_ServesSecondCallFromCache(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(researchDesignsXML))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ResearchDesigns(context.Background())
	require.NoError(t, err)
	_, err = client.ResearchDesigns(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), requests.Load())
}

func TestClient_ResearchDesigns_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ResearchDesigns(context.Background())
	assert.Error(t, err)
}
