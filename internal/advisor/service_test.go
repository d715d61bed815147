package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realfunhq/copilot/internal/jamai"
)

// fakeClient captures the outbound request and plays back canned columns.
type fakeClient struct {
	lastReq jamai.AddRowRequest
	columns map[string]string
	err     error
}

func (f *fakeClient) AddRow(_ context.Context, req jamai.AddRowRequest) (*jamai.AddRowResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &jamai.AddRowResult{Columns: f.columns, LatencyMs: 12}, nil
}

func (f *fakeClient) Healthy(context.Context) bool { return true }

func completeColumns() map[string]string {
	return map[string]string{
		"intent":           "reschedule",
		"summary":          "Parent wants to move Aisyah to Sunday morning.",
		"slot_options":     `[{"label": "Sun 10-11.30 am (Online)", "internal_code": "SUN_1000_1130_ONLINE", "confidence": 0.9}]`,
		"chosen_slot":      "SUN_1000_1130_ONLINE",
		"whatsapp_message": "Hi! We can move Aisyah to Sunday 10-11.30 am (Online). Does that work?",
		"warnings":         `["Teacher roster unconfirmed for Sunday"]`,
	}
}

func testRequest() Request {
	return Request{
		StudentName:  "Aisyah",
		StudentLevel: "Level 2",
		CurrentMode:  "Online",
		CurrentSlot:  "Sat 3-4.30 pm",
		RawRequest:   "Can we move Aisyah to Sunday morning instead?",
		Notes:        "Prefers the same teacher.",
	}
}

func TestService_Process_MapsRequestFields(t *testing.T) {
	client := &fakeClient{columns: completeColumns()}
	svc := NewService(client, "realfun_admin_copilot")

	_, err := svc.Process(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "realfun_admin_copilot", client.lastReq.TableID)
	assert.Equal(t, map[string]string{
		"raw_request":   "Can we move Aisyah to Sunday morning instead?",
		"student_name":  "Aisyah",
		"student_level": "Level 2",
		"current_mode":  "Online",
		"current_slot":  "Sat 3-4.30 pm",
		"notes":         "Prefers the same teacher.",
	}, client.lastReq.Data)
}

func TestService_Process_TrimsFields(t *testing.T) {
	client := &fakeClient{columns: completeColumns()}
	svc := NewService(client, "t")

	req := testRequest()
	req.StudentName = "  Aisyah \n"
	req.Notes = "   "

	_, err := svc.Process(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Aisyah", client.lastReq.Data["student_name"])
	assert.Equal(t, "", client.lastReq.Data["notes"])
}

func TestService_Process_ParsesResponse(t *testing.T) {
	client := &fakeClient{columns: completeColumns()}
	svc := NewService(client, "t")

	resp, err := svc.Process(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "reschedule", resp.Intent)
	require.Len(t, resp.RecommendedSlots, 1)
	assert.Equal(t, "SUN_1000_1130_ONLINE", resp.RecommendedSlots[0].InternalCode)
	require.NotNil(t, resp.ChosenSlot)
	assert.Equal(t, "Sun 10-11.30 am (Online)", resp.ChosenSlot.Label)
	assert.Equal(t, []string{"Teacher roster unconfirmed for Sunday"}, resp.Warnings)
	assert.Contains(t, resp.WhatsAppMessage, "Sunday 10-11.30 am")
}

func TestService_Process_ValidatesRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Request)
		wantField string
	}{
		{"missing name", func(r *Request) { r.StudentName = "  " }, "student_name"},
		{"missing level", func(r *Request) { r.StudentLevel = "" }, "student_level"},
		{"missing request", func(r *Request) { r.RawRequest = "\n" }, "raw_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{columns: completeColumns()}
			svc := NewService(client, "t")

			req := testRequest()
			tt.mutate(&req)

			_, err := svc.Process(context.Background(), req)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Empty(t, client.lastReq.TableID, "no call should be made")
		})
	}
}

func TestService_Process_ClientErrorWrapped(t *testing.T) {
	client := &fakeClient{err: jamai.ErrUnavailable}
	svc := NewService(client, "t")

	resp, err := svc.Process(context.Background(), testRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, jamai.ErrUnavailable)
}

func TestService_Process_IncompleteReturnsPartial(t *testing.T) {
	columns := completeColumns()
	columns["intent"] = ""
	client := &fakeClient{columns: columns}
	svc := NewService(client, "t")

	resp, err := svc.Process(context.Background(), testRequest())

	var incErr *IncompleteError
	require.ErrorAs(t, err, &incErr)
	assert.Equal(t, []string{"intent"}, incErr.Missing)
	require.NotNil(t, resp)
	assert.Equal(t, "Parent wants to move Aisyah to Sunday morning.", resp.Summary)
	require.Len(t, resp.RecommendedSlots, 1)
}

func TestService_Process_BlobMessageReplacedByFallback(t *testing.T) {
	columns := completeColumns()
	columns["whatsapp_message"] = "ChatCompletion(id='chatcmpl-1', object='chat.completion', usage=Usage())"
	client := &fakeClient{columns: columns}
	svc := NewService(client, "t")

	resp, err := svc.Process(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Contains(t, resp.WhatsAppMessage, "Hi! Here is a quick summary and options")
	assert.Contains(t, resp.WhatsAppMessage, "- Suggested slot: Sun 10-11.30 am (Online)")
}

func TestService_Process_MissingMessageUsesFallback(t *testing.T) {
	columns := completeColumns()
	delete(columns, "whatsapp_message")
	delete(columns, "chosen_slot")
	client := &fakeClient{columns: columns}
	svc := NewService(client, "t")

	resp, err := svc.Process(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Nil(t, resp.ChosenSlot)
	assert.Contains(t, resp.WhatsAppMessage, "- Recommended slots:")
	assert.Contains(t, resp.WhatsAppMessage, "  1. Sun 10-11.30 am (Online)")
}

func TestService_Process_MalformedSlotsDegradeToRaw(t *testing.T) {
	columns := completeColumns()
	columns["slot_options"] = "• Sat 2pm online\n• Sun 4pm physical"
	columns["chosen_slot"] = ""
	client := &fakeClient{columns: columns}
	svc := NewService(client, "t")

	resp, err := svc.Process(context.Background(), testRequest())

	require.NoError(t, err)
	require.Len(t, resp.RecommendedSlots, 1)
	assert.Contains(t, resp.RecommendedSlots[0].Label, "• Sat 2pm online")
	assert.Nil(t, resp.ChosenSlot)
}

func TestValidationError_Is(t *testing.T) {
	err := validateRequest(Request{})
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "student name is required", err.Error())
}
