package publish

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/contentops/draft-publisher/models"
	"github.com/contentops/draft-publisher/pkg/archive"
	"github.com/contentops/draft-publisher/pkg/extractor"
	"github.com/contentops/draft-publisher/pkg/publisher"
	"github.com/contentops/draft-publisher/pkg/resolver"
	"github.com/contentops/draft-publisher/pkg/wp"
)

// fakeWordPress is an in-memory CMS behind an httptest server.
type fakeWordPress struct {
	nextID  int
	posts   map[int]*wp.Post
	creates int
	updates int
}

func newFakeWordPress() *fakeWordPress {
	return &fakeWordPress{nextID: 100, posts: map[int]*wp.Post{}}
}

func (f *fakeWordPress) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/wp/v2/users", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "Jane" {
			writeJSON(w, []wp.User{{ID: 7, Name: "Jane"}})
			return
		}
		writeJSON(w, []wp.User{})
	})
	mux.HandleFunc("/wp-json/wp/v2/tags", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []wp.Term{})
	})
	mux.HandleFunc("/wp-json/wp/v2/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []wp.Term{})
	})
	mux.HandleFunc("/wp-json/wp/v2/media", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "hero" {
			writeJSON(w, []wp.Media{{ID: 9, SourceURL: "https://cdn/x.jpg", AltText: "stored"}})
			return
		}
		writeJSON(w, []wp.Media{})
	})
	mux.HandleFunc("/wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			slug := r.URL.Query().Get("slug")
			var matches []wp.Post
			for _, p := range f.posts {
				if p.Slug == slug {
					matches = append(matches, *p)
				}
			}
			writeJSON(w, matches)
			return
		}
		var payload wp.PostPayload
		_ = json.NewDecoder(r.Body).Decode(&payload)
		f.creates++
		post := &wp.Post{ID: f.nextID, Status: payload.Status, Slug: payload.Slug}
		f.posts[post.ID] = post
		f.nextID++
		writeJSON(w, post)
	})
	mux.HandleFunc("/wp-json/wp/v2/posts/", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/wp-json/wp/v2/posts/"))
		post, ok := f.posts[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		var payload wp.PostPayload
		_ = json.NewDecoder(r.Body).Decode(&payload)
		f.updates++
		post.Slug = payload.Slug
		// Status stays untouched when the payload omits it.
		if payload.Status != "" {
			post.Status = payload.Status
		}
		writeJSON(w, post)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type batchEnv struct {
	cms     *fakeWordPress
	manager *archive.Manager
	config  *models.Config
	ext     *extractor.Extractor
	pub     *publisher.Publisher
	logger  *slog.Logger
	intake  string
	archive string
}

func setupBatch(t *testing.T) *batchEnv {
	t.Helper()
	cms := newFakeWordPress()
	srv := httptest.NewServer(cms.handler())
	t.Cleanup(srv.Close)

	root := t.TempDir()
	intake := filepath.Join(root, "drafts")
	archiveDir := filepath.Join(root, "published")
	if err := os.Mkdir(intake, 0750); err != nil {
		t.Fatalf("mkdir intake: %v", err)
	}

	manager, err := archive.NewManager(intake, archiveDir)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := wp.NewClient(srv.URL, "", "")
	ids := resolver.New(logger, client, nil)

	config := &models.Config{}
	config.ApplyDefaults()

	return &batchEnv{
		cms:     cms,
		manager: manager,
		config:  config,
		ext:     extractor.New(logger, ids, config.ReportColumnCap),
		pub:     publisher.New(logger, client, ids),
		logger:  logger,
		intake:  intake,
		archive: archiveDir,
	}
}

func (env *batchEnv) writeDraft(t *testing.T, name, html string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(env.intake, name), []byte(html), 0644); err != nil {
		t.Fatalf("write draft: %v", err)
	}
}

func (env *batchEnv) run(t *testing.T) []Result {
	t.Helper()
	files, err := env.manager.Discover()
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	return Run(env.logger, env.config, env.ext, env.pub, env.manager, files)
}

const goodDraft = `<h1>Title</h1>
<h3>post-tag:author:Jane</h3>
<h3>post-tag:url:my-slug</h3>
<p>Hello</p>`

func TestRun_CreateThenArchive(t *testing.T) {
	env := setupBatch(t)
	env.writeDraft(t, "good.html", goodDraft)

	results := env.run(t)
	if len(results) != 1 {
		t.Fatalf("len(results) = %d", len(results))
	}
	r := results[0]
	if r.Failed() {
		t.Fatalf("result failed: %v", r.Error)
	}
	if !r.Created || !r.Archived {
		t.Errorf("Created = %v, Archived = %v", r.Created, r.Archived)
	}
	if env.cms.creates != 1 || env.cms.updates != 0 {
		t.Errorf("writes = %d creates, %d updates", env.cms.creates, env.cms.updates)
	}
	if env.cms.posts[r.PostID].Status != "draft" {
		t.Errorf("new post status = %q, want draft", env.cms.posts[r.PostID].Status)
	}
	if _, err := os.Stat(filepath.Join(env.archive, "good.html")); err != nil {
		t.Errorf("draft not archived: %v", err)
	}
}

func TestRun_SecondRunUpdatesWithoutDuplicate(t *testing.T) {
	env := setupBatch(t)
	env.writeDraft(t, "good.html", goodDraft)
	first := env.run(t)
	if first[0].Failed() {
		t.Fatalf("first run failed: %v", first[0].Error)
	}
	firstID := first[0].PostID

	// A human promoted the draft between runs.
	env.cms.posts[firstID].Status = "publish"

	env.writeDraft(t, "good.html", goodDraft)
	second := env.run(t)
	if second[0].Failed() {
		t.Fatalf("second run failed: %v", second[0].Error)
	}

	if second[0].PostID != firstID {
		t.Errorf("second run hit post %d, want %d", second[0].PostID, firstID)
	}
	if len(env.cms.posts) != 1 {
		t.Errorf("post count = %d, want 1 (no duplicates)", len(env.cms.posts))
	}
	if env.cms.updates != 1 {
		t.Errorf("updates = %d, want 1", env.cms.updates)
	}
	if env.cms.posts[firstID].Status != "publish" {
		t.Errorf("status = %q, update must preserve server-side status", env.cms.posts[firstID].Status)
	}
}

func TestRun_FatalImageDropsDocumentOnly(t *testing.T) {
	env := setupBatch(t)
	env.writeDraft(t, "bad.html", `<h1>Bad</h1>
<h3>post-tag:author:Jane</h3>
<h3>content:image:ghost</h3>`)
	env.writeDraft(t, "good.html", goodDraft)

	results := env.run(t)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d", len(results))
	}

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.FileName] = r
	}

	bad := byName["bad.html"]
	if !bad.Failed() || bad.ErrorType != "extract_error" {
		t.Errorf("bad.html: failed=%v type=%q", bad.Failed(), bad.ErrorType)
	}
	good := byName["good.html"]
	if good.Failed() {
		t.Errorf("good.html failed: %v", good.Error)
	}

	// The failed document produced zero writes and stays in intake for
	// the next run.
	if env.cms.creates != 1 {
		t.Errorf("creates = %d, want 1", env.cms.creates)
	}
	if _, err := os.Stat(filepath.Join(env.intake, "bad.html")); err != nil {
		t.Errorf("failed draft must remain in intake: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.archive, "good.html")); err != nil {
		t.Errorf("good draft must be archived: %v", err)
	}
}

func TestRun_UnresolvableAuthorFailsPublishPhase(t *testing.T) {
	env := setupBatch(t)
	env.writeDraft(t, "noauthor.html", `<h1>T</h1>
<h3>post-tag:author:Nobody</h3>
<p>x</p>`)

	results := env.run(t)
	r := results[0]
	if !r.Failed() || r.ErrorType != "publish_error" {
		t.Errorf("failed=%v type=%q", r.Failed(), r.ErrorType)
	}
	if env.cms.creates+env.cms.updates != 0 {
		t.Error("no write may happen for a document with an unresolvable author")
	}
	if _, err := os.Stat(filepath.Join(env.intake, "noauthor.html")); err != nil {
		t.Errorf("failed draft must remain in intake: %v", err)
	}
}

func TestWriteReport(t *testing.T) {
	env := setupBatch(t)
	env.writeDraft(t, "good.html", goodDraft)
	results := env.run(t)

	dir := filepath.Join(t.TempDir(), "reports")
	path, err := WriteReport(dir, results)
	if err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if report.Total != 1 || report.Published != 1 || report.Failed != 0 {
		t.Errorf("report counts = %+v", report)
	}
	if report.Results[0].Status != "published" {
		t.Errorf("result status = %q", report.Results[0].Status)
	}
}
