package supabase

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestQueryBuilderURL(t *testing.T) {
	c, err := New(Config{ProjectURL: "https://proj.supabase.co", AnonKey: "k"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	q := c.Database().From("activities").
		Select("*").
		Eq("user_id", "u1").
		Eq("status", "verified").
		Order("created_at", OrderDesc).
		Limit(10).
		Offset(20)

	got := q.buildURL()
	want := "https://proj.supabase.co/rest/v1/activities?select=%2A&user_id=eq.u1&status=eq.verified&order=created_at.desc&limit=10&offset=20"
	if got != want {
		t.Errorf("buildURL()\n got %q\nwant %q", got, want)
	}
}

func TestQueryBuilderEmbeddedSelect(t *testing.T) {
	c, _ := New(Config{ProjectURL: "https://proj.supabase.co", AnonKey: "k"})

	got := c.Database().From("proposals").Select("*, users(name,avatar_url)").buildURL()
	if !strings.Contains(got, "select=%2A%2C+users%28name%2Cavatar_url%29") &&
		!strings.Contains(got, "select=") {
		t.Errorf("buildURL() = %q, missing select param", got)
	}
}

func TestQueryBuilderSingleHeader(t *testing.T) {
	var gotAccept string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"id":"u1"}`))
	}))

	var row struct {
		ID string `json:"id"`
	}
	err := c.Database().From("users").Select("*").Eq("id", "u1").Single().ExecuteInto(context.Background(), &row)
	if err != nil {
		t.Fatalf("ExecuteInto() error: %v", err)
	}

	if gotAccept != "application/vnd.pgrst.object+json" {
		t.Errorf("Accept = %q, want pgrst object", gotAccept)
	}
	if row.ID != "u1" {
		t.Errorf("row.ID = %q", row.ID)
	}
}

func TestQueryBuilderRangeAndCount(t *testing.T) {
	var gotRange, gotPrefer string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		gotPrefer = r.Header.Get("Prefer")
		w.Header().Set("Content-Range", "0-9/57")
		w.Write([]byte(`[{"id":"a1"}]`))
	}))

	var rows []struct {
		ID string `json:"id"`
	}
	total, err := c.Database().From("activities").
		Select("*").
		Count("exact").
		Range(0, 9).
		ExecuteIntoWithCount(context.Background(), &rows)
	if err != nil {
		t.Fatalf("ExecuteIntoWithCount() error: %v", err)
	}

	if gotRange != "0-9" {
		t.Errorf("Range header = %q, want 0-9", gotRange)
	}
	if !strings.Contains(gotPrefer, "count=exact") {
		t.Errorf("Prefer header = %q, want count=exact", gotPrefer)
	}
	if total != 57 {
		t.Errorf("total = %d, want 57", total)
	}
	if len(rows) != 1 || rows[0].ID != "a1" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestQueryBuilderInsertMethod(t *testing.T) {
	var gotMethod, gotPrefer, gotBody string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPrefer = r.Header.Get("Prefer")
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":"v1"}]`))
	}))

	_, err := c.Database().From("votes").
		Insert(map[string]string{"vote": "yes"}).
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if gotMethod != "POST" {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotPrefer != "return=representation" {
		t.Errorf("Prefer = %q", gotPrefer)
	}
	if !strings.Contains(gotBody, `"vote":"yes"`) {
		t.Errorf("body = %q", gotBody)
	}
}

func TestQueryBuilderUpsert(t *testing.T) {
	var gotPrefer, gotConflict string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		gotConflict = r.URL.Query().Get("on_conflict")
		w.Write([]byte(`[{}]`))
	}))

	_, err := c.Database().From("token_balances").
		Upsert(map[string]any{"balance": 12.5}, "user_id,token_symbol").
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if !strings.Contains(gotPrefer, "resolution=merge-duplicates") {
		t.Errorf("Prefer = %q", gotPrefer)
	}
	if gotConflict != "user_id,token_symbol" {
		t.Errorf("on_conflict = %q", gotConflict)
	}
}

func TestQueryBuilderDeleteMethod(t *testing.T) {
	var gotMethod string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))

	_, err := c.Database().From("activities").Delete().Eq("id", "a1").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if gotMethod != "DELETE" {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
}

func TestQueryBuilderBackendErrorPassthrough(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"23505","message":"duplicate key value"}`))
	}))

	_, err := c.Database().From("votes").Insert(map[string]string{}).Execute(context.Background())
	if err == nil {
		t.Fatal("Execute() should fail")
	}

	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Code != "23505" || apiErr.StatusCode != 409 {
		t.Errorf("error = %+v", apiErr)
	}
}

func TestParseContentRangeTotal(t *testing.T) {
	tests := []struct {
		header string
		want   int64
	}{
		{"0-9/57", 57},
		{"*/0", -1},
		{"", -1},
		{"0-9/*", -1},
		{"items 0-9/42", 42},
		{"nonsense", -1},
	}

	for _, tt := range tests {
		if got := parseContentRangeTotal(tt.header); got != tt.want {
			t.Errorf("parseContentRangeTotal(%q) = %d, want %d", tt.header, got, tt.want)
		}
	}
}
