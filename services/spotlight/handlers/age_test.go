// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the age proxy handler

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/spotlight/services/spotlight/datatypes"
)

func ageRouter(client HTTPClient) *gin.Engine {
	router := gin.New()
	router.GET("/age", Age(client, 0))
	return router
}

func TestAge_ProxiesUpstream(t *testing.T) {
	client := &stubClient{body: `{"name":"ada","age":42,"count":12345}`}
	router := ageRouter(client)

	w := perform(router, "GET", "/age?name=ada", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.AgeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ada", resp.Name)
	require.NotNil(t, resp.Age)
	assert.Equal(t, 42, *resp.Age)
	assert.False(t, resp.Error)

	assert.Equal(t, "api.agify.io", client.lastReq.URL.Host)
	assert.Equal(t, "name=ada", client.lastReq.URL.RawQuery)
}

func TestAge_NullAgePassedThrough(t *testing.T) {
	client := &stubClient{body: `{"name":"zzxq","age":null,"count":0}`}

	w := perform(ageRouter(client), "GET", "/age?name=zzxq", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.AgeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Age)
}

func TestAge_MissingName(t *testing.T) {
	w := perform(ageRouter(&stubClient{}), "GET", "/age", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAge_UpstreamFailure(t *testing.T) {
	client := &stubClient{err: errors.New("dns failure")}

	w := perform(ageRouter(client), "GET", "/age?name=ada", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp datatypes.AgeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Error)
	assert.Equal(t, "fetch failed", resp.Message)
	assert.Equal(t, "ada", resp.Name)
}

func TestAge_UpstreamRateLimit(t *testing.T) {
	client := &stubClient{
		status: http.StatusTooManyRequests,
		body:   `{"error":true,"message":"Request limit reached"}`,
	}

	w := perform(ageRouter(client), "GET", "/age?name=ada", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.AgeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Error)
	assert.Equal(t, "Request limit reached", resp.Message)
}
