package functional_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/sommelier/internal/domain/session"
	"github.com/rpggio/sommelier/internal/domain/turn"
	"github.com/rpggio/sommelier/internal/testserver"
)

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      any             `json:"id,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// conversation replays the session map between turns the way a voice
// front end does.
type conversation struct {
	t       *testing.T
	ts      *testserver.TestServer
	session session.Payload
}

func rpcCall(t *testing.T, ts *testserver.TestServer, token, method string, params any) rpcResponse {
	t.Helper()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		payload["params"] = params
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(bodyBytes))
	}

	var result rpcResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func (c *conversation) say(intent turn.Intent, slots map[string]any) turn.Outcome {
	c.t.Helper()

	resp := rpcCall(c.t, c.ts, c.ts.Token, string(intent), map[string]any{
		"slots":   slots,
		"session": c.session,
	})
	require.Nil(c.t, resp.Error, "RPC error: %v", resp.Error)

	var out turn.Outcome
	require.NoError(c.t, json.Unmarshal(resp.Result, &out))
	c.session = out.Session
	return out
}

func TestFunctional_Authentication(t *testing.T) {
	ts := testserver.New(t, "token")

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewBufferString(`{"jsonrpc":"2.0","method":"LaunchRequest","id":1}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req.Header.Set("Authorization", "Bearer wrong")
	req.Body = io.NopCloser(bytes.NewBufferString(`{"jsonrpc":"2.0","method":"LaunchRequest","id":1}`))
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	out := rpcCall(t, ts, ts.Token, string(turn.IntentLaunch), nil)
	require.Nil(t, out.Error)
}

func TestFunctional_SearchBrowseAndDetails(t *testing.T) {
	ts := testserver.New(t, "token")
	c := &conversation{t: t, ts: ts}

	welcome := c.say(turn.IntentLaunch, nil)
	require.Contains(t, welcome.SpokenText, "Wine Assistant")
	require.Equal(t, turn.CardTitle, welcome.DisplayTitle)

	found := c.say(turn.IntentSearchByType, map[string]any{turn.SlotWineType: "red"})
	require.Equal(t, "I found 2 wines. The first wine is Caymus Cabernet Sauvignon 2021. What would you like to know about it?", found.SpokenText)
	require.Equal(t, "Caymus Cabernet Sauvignon 2021", found.DisplayTitle)

	rating := c.say(turn.IntentActionDetail, map[string]any{turn.SlotAction: "rating"})
	require.Equal(t, "Caymus Cabernet Sauvignon 2021 is rated 92 points.", rating.SpokenText)

	next := c.say(turn.IntentNext, nil)
	require.Equal(t, "Willamette Valley Pinot Noir 2021", next.DisplayTitle)
	require.Contains(t, next.DisplayText, "Wine 2 of 2.")

	location := c.say(turn.IntentActionDetail, map[string]any{turn.SlotAction: "where"})
	require.Equal(t, "Willamette Valley Pinot Noir 2021 is from Willamette Valley, USA.", location.SpokenText)

	again := c.say(turn.IntentNext, nil)
	require.Equal(t, "Willamette Valley Pinot Noir 2021", again.DisplayTitle, "cursor stays on the last wine")

	first := c.say(turn.IntentStartOver, nil)
	require.Equal(t, "Caymus Cabernet Sauvignon 2021", first.DisplayTitle)

	bye := c.say(turn.IntentStop, nil)
	require.True(t, bye.EndSession)
	require.Equal(t, "Happy to help, goodbye!", bye.SpokenText)
}

func TestFunctional_MissingFields(t *testing.T) {
	ts := testserver.New(t, "token")
	c := &conversation{t: t, ts: ts}

	c.say(turn.IntentWineSearch, map[string]any{turn.SlotWine: "Provence"})

	price := c.say(turn.IntentActionDetail, map[string]any{turn.SlotAction: "price"})
	require.Equal(t, "I'm sorry, the price for Provence Rose is not available.", price.SpokenText)
}

func TestFunctional_BrowseWithoutSearch(t *testing.T) {
	ts := testserver.New(t, "token")
	c := &conversation{t: t, ts: ts}

	out := c.say(turn.IntentNext, nil)
	require.Equal(t, "Please search for a wine first.", out.SpokenText)
	require.False(t, out.EndSession)
}

func TestFunctional_SessionKeepsForeignKeys(t *testing.T) {
	ts := testserver.New(t, "token")
	c := &conversation{t: t, ts: ts, session: session.Payload{"locale": "en-US"}}

	c.say(turn.IntentFoodPairing, map[string]any{turn.SlotFood: "oysters"})
	require.Equal(t, "en-US", c.session["locale"])
}
