package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realfunhq/copilot/internal/jamai"
)

// TestService_Process_WithHTTPTestServer exercises the full HTTP path:
// httptest server → jamai.Client → Service.Process → column parsing. This
// validates no mock-drift between the row envelope the service emits and
// the parsing layer's expectations.
func TestService_Process_WithHTTPTestServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/gen_tables/action/rows", r.URL.Path)

		var body struct {
			TableID string              `json:"table_id"`
			Data    []map[string]string `json:"data"`
			Stream  bool                `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "realfun_admin_copilot", body.TableID)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Aisyah", body.Data[0]["student_name"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rows":[{"columns":{
			"intent":{"object":"chat.completion.chunk","choices":[{"message":{"role":"assistant","content":"reschedule"}}]},
			"summary":{"object":"chat.completion.chunk","choices":[{"message":{"role":"assistant","content":"Move Aisyah to Sunday morning."}}]},
			"slot_options":{"object":"chat.completion.chunk","choices":[{"message":{"role":"assistant","content":"[{\"label\": \"Sun 10-11.30 am (Online)\", \"internal_code\": \"SUN_1000_1130_ONLINE\", \"confidence\": 0.9}]"}}]},
			"chosen_slot":{"object":"chat.completion.chunk","choices":[{"message":{"role":"assistant","content":"SUN_1000_1130_ONLINE"}}]},
			"whatsapp_message":{"object":"chat.completion.chunk","choices":[{"message":{"role":"assistant","content":"Hi! Sunday 10-11.30 am (Online) is available. Shall we confirm?"}}]},
			"warnings":{"object":"chat.completion.chunk","choices":[{"message":{"role":"assistant","content":"[\"Teacher roster unconfirmed\"]"}}]}
		}}]}`))
	}))
	defer srv.Close()

	cfg := jamai.DefaultConfig()
	cfg.APIBase = srv.URL
	cfg.ProjectID = "proj_test"
	cfg.PAT = "pat_test"
	cfg.ActionTableID = "realfun_admin_copilot"

	client := jamai.NewClient(cfg, jamai.NoopObserver{})
	svc := NewService(client, cfg.ActionTableID)

	resp, err := svc.Process(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "reschedule", resp.Intent)
	assert.Equal(t, "Move Aisyah to Sunday morning.", resp.Summary)
	require.Len(t, resp.RecommendedSlots, 1)
	assert.Equal(t, "Sun 10-11.30 am (Online)", resp.RecommendedSlots[0].Label)
	require.NotNil(t, resp.ChosenSlot)
	assert.Equal(t, "SUN_1000_1130_ONLINE", resp.ChosenSlot.InternalCode)
	assert.Equal(t, []string{"Teacher roster unconfirmed"}, resp.Warnings)
	assert.Contains(t, resp.WhatsAppMessage, "Shall we confirm?")
}

// TestService_Process_ServiceUnreachable verifies the transport sentinel
// surfaces through the service layer untouched.
func TestService_Process_ServiceUnreachable(t *testing.T) {
	cfg := jamai.DefaultConfig()
	cfg.APIBase = "http://127.0.0.1:1"
	cfg.ProjectID = "p"
	cfg.PAT = "t"
	cfg.ActionTableID = "t"

	client := jamai.NewClient(cfg, jamai.NoopObserver{})
	svc := NewService(client, cfg.ActionTableID)

	resp, err := svc.Process(context.Background(), testRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, jamai.ErrUnavailable)
}
