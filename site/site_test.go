package site

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quill/config"
	"quill/constants"
	"quill/database"

	"gorm.io/gorm"
)

func newTestSite(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	s := New(db, &config.Config{Port: "0", DBPath: "", SiteName: "Quill Test"})
	return s.Router(), db
}

func doGet(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func doPost(t *testing.T, h http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, h http.Handler, name, email, password string) {
	t.Helper()
	form := url.Values{"name": {name}, "email": {email}, "password": {password}}
	w := doPost(t, h, "/register", form)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("register code %d", w.Code)
	}
}

func loginUser(t *testing.T, h http.Handler, email, password string) *http.Cookie {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	w := doPost(t, h, "/log-in", form)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login code %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionTokenCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie set")
	return nil
}

func createPost(t *testing.T, h http.Handler, cookie *http.Cookie, title string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{
		"title":    {title},
		"subtitle": {"a subtitle"},
		"img_url":  {"https://example.com/cover.png"},
		"tags":     {"life, go"},
		"body":     {"Some **markdown** body."},
	}
	return doPost(t, h, "/create-post", form, cookie)
}

func TestFirstRegisteredUserIsAdmin(t *testing.T) {
	h, db := newTestSite(t)

	registerUser(t, h, "alice", "alice@example.com", "pw1")
	registerUser(t, h, "bob", "bob@example.com", "pw2")

	alice, err := database.UserByEmail(db, "alice@example.com")
	if err != nil || alice == nil {
		t.Fatalf("alice lookup: %v", err)
	}
	if !alice.IsAdmin {
		t.Errorf("first registered user should be admin")
	}

	bob, err := database.UserByEmail(db, "bob@example.com")
	if err != nil || bob == nil {
		t.Fatalf("bob lookup: %v", err)
	}
	if bob.IsAdmin {
		t.Errorf("second registered user should not be admin")
	}
}

func TestAdminGate(t *testing.T) {
	h, _ := newTestSite(t)

	registerUser(t, h, "alice", "alice@example.com", "pw1")
	registerUser(t, h, "bob", "bob@example.com", "pw2")

	adminPaths := []string{"/create-post", "/edit-post/1", "/delete-post/1"}

	// anonymous visitors are denied
	for _, path := range adminPaths {
		if w := doGet(t, h, path); w.Code != http.StatusForbidden {
			t.Errorf("anonymous GET %s: got %d, want 403", path, w.Code)
		}
	}

	// so is everyone without the admin role
	bobCookie := loginUser(t, h, "bob@example.com", "pw2")
	for _, path := range adminPaths {
		if w := doGet(t, h, path, bobCookie); w.Code != http.StatusForbidden {
			t.Errorf("non-admin GET %s: got %d, want 403", path, w.Code)
		}
	}

	// the administrator gets through
	aliceCookie := loginUser(t, h, "alice@example.com", "pw1")
	if w := doGet(t, h, "/create-post", aliceCookie); w.Code != http.StatusOK {
		t.Errorf("admin GET /create-post: got %d, want 200", w.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, db := newTestSite(t)

	registerUser(t, h, "alice", "alice@example.com", "pw1")

	form := url.Values{"name": {"alice again"}, "email": {"alice@example.com"}, "password": {"other"}}
	w := doPost(t, h, "/register", form)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("duplicate register code %d", w.Code)
	}

	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect: %v", err)
	}
	if loc.Path != "/log-in" {
		t.Errorf("redirect path %q, want /log-in", loc.Path)
	}
	if got := loc.Query().Get("er"); got != "You already have an account with this email." {
		t.Errorf("error message %q", got)
	}
	if got := loc.Query().Get("email"); got != "alice@example.com" {
		t.Errorf("prefilled email %q", got)
	}

	count, err := database.CountUsers(db)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("user count %d, want 1", count)
	}
}

func TestCreatePostShowsOnHome(t *testing.T) {
	h, db := newTestSite(t)

	registerUser(t, h, "alice", "alice@example.com", "pw1")
	cookie := loginUser(t, h, "alice@example.com", "pw1")

	if w := createPost(t, h, cookie, "Hello World"); w.Code != http.StatusSeeOther {
		t.Fatalf("create post code %d", w.Code)
	}

	var count int64
	if err := db.Model(&database.Post{}).Count(&count).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if count != 1 {
		t.Fatalf("post count %d, want 1", count)
	}

	w := doGet(t, h, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("home code %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Hello World") {
		t.Errorf("home page missing post title")
	}
	today := time.Now().Format(constants.POST_DATE_LAYOUT)
	if !strings.Contains(body, today) {
		t.Errorf("home page missing post date %q", today)
	}
}

func TestLoginScenarios(t *testing.T) {
	h, _ := newTestSite(t)

	registerUser(t, h, "a", "a@x.com", "pw1")

	// right credentials: home with an authenticated session
	w := doPost(t, h, "/log-in", url.Values{"email": {"a@x.com"}, "password": {"pw1"}})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("login redirect: code %d location %q", w.Code, w.Header().Get("Location"))
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatalf("no session cookie on successful login")
	}

	// wrong password
	w = doPost(t, h, "/log-in", url.Values{"email": {"a@x.com"}, "password": {"wrong"}})
	loc, _ := url.Parse(w.Header().Get("Location"))
	if loc.Path != "/log-in" {
		t.Errorf("wrong password redirect path %q", loc.Path)
	}
	if got := loc.Query().Get("er"); got != "Please make sure you wrote the right password." {
		t.Errorf("wrong password message %q", got)
	}

	// unknown email
	w = doPost(t, h, "/log-in", url.Values{"email": {"nobody@x.com"}, "password": {"pw1"}})
	loc, _ = url.Parse(w.Header().Get("Location"))
	if loc.Path != "/log-in" {
		t.Errorf("unknown email redirect path %q", loc.Path)
	}
	if got := loc.Query().Get("er"); got != "Invalid email. Please make sure you wrote the right email." {
		t.Errorf("unknown email message %q", got)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	h, db := newTestSite(t)

	registerUser(t, h, "alice", "alice@example.com", "pw1")
	cookie := loginUser(t, h, "alice@example.com", "pw1")
	createPost(t, h, cookie, "A Post")

	w := doGet(t, h, "/logout", cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("logout code %d", w.Code)
	}

	// the stale cookie must no longer resolve to a session: a comment
	// attempt redirects to the login page and persists nothing
	w = doPost(t, h, "/post/1", url.Values{"comment": {"still here?"}}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("comment after logout code %d", w.Code)
	}
	loc, _ := url.Parse(w.Header().Get("Location"))
	if loc.Path != "/log-in" {
		t.Errorf("comment after logout redirect path %q", loc.Path)
	}
	if loc.Query().Get("er") == "" {
		t.Errorf("expected an explanatory message on the login redirect")
	}

	var count int64
	if err := db.Model(&database.Comment{}).Count(&count).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if count != 0 {
		t.Errorf("comment count %d, want 0", count)
	}
}

func TestCommentLinksAuthorAndPost(t *testing.T) {
	h, db := newTestSite(t)

	registerUser(t, h, "alice", "alice@example.com", "pw1")
	registerUser(t, h, "bob", "bob@example.com", "pw2")

	adminCookie := loginUser(t, h, "alice@example.com", "pw1")
	createPost(t, h, adminCookie, "Commented Post")

	var post database.Post
	if err := db.First(&post).Error; err != nil {
		t.Fatalf("load post: %v", err)
	}

	bobCookie := loginUser(t, h, "bob@example.com", "pw2")
	w := doPost(t, h, fmt.Sprintf("/post/%d", post.ID), url.Values{"comment": {"great read"}}, bobCookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("comment code %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != fmt.Sprintf("/post/%d", post.ID) {
		t.Errorf("comment redirect %q", got)
	}

	bob, _ := database.UserByEmail(db, "bob@example.com")

	var comments []database.Comment
	if err := db.Find(&comments).Error; err != nil {
		t.Fatalf("load comments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("comment count %d, want 1", len(comments))
	}
	if comments[0].PostID != post.ID {
		t.Errorf("comment post id %d, want %d", comments[0].PostID, post.ID)
	}
	if comments[0].AuthorID != bob.ID {
		t.Errorf("comment author id %d, want %d", comments[0].AuthorID, bob.ID)
	}

	// and it shows up on the post page
	body := doGet(t, h, fmt.Sprintf("/post/%d", post.ID)).Body.String()
	if !strings.Contains(body, "great read") {
		t.Errorf("post page missing the comment")
	}
	if !strings.Contains(body, "gravatar.com/avatar/") {
		t.Errorf("post page missing the commenter avatar")
	}
}

func TestDuplicateTitleRejected(t *testing.T) {
	h, db := newTestSite(t)

	registerUser(t, h, "alice", "alice@example.com", "pw1")
	cookie := loginUser(t, h, "alice@example.com", "pw1")

	createPost(t, h, cookie, "Same Title")
	w := createPost(t, h, cookie, "Same Title")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate title code %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "same title already exists") {
		t.Errorf("duplicate title response missing message")
	}

	var count int64
	if err := db.Model(&database.Post{}).Count(&count).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if count != 1 {
		t.Errorf("post count %d, want 1", count)
	}
}

func TestMissingPostIsNotFound(t *testing.T) {
	h, _ := newTestSite(t)

	if w := doGet(t, h, "/post/9999"); w.Code != http.StatusNotFound {
		t.Errorf("missing post code %d, want 404", w.Code)
	}
}

func TestEditPostKeepsAuthorAndDate(t *testing.T) {
	h, db := newTestSite(t)

	registerUser(t, h, "alice", "alice@example.com", "pw1")
	cookie := loginUser(t, h, "alice@example.com", "pw1")
	createPost(t, h, cookie, "Original Title")

	var before database.Post
	if err := db.First(&before).Error; err != nil {
		t.Fatalf("load post: %v", err)
	}

	form := url.Values{
		"title":    {"Updated Title"},
		"subtitle": {"new subtitle"},
		"img_url":  {"https://example.com/new.png"},
		"tags":     {"update"},
		"body":     {"Updated body."},
	}
	w := doPost(t, h, fmt.Sprintf("/edit-post/%d", before.ID), form, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("edit code %d", w.Code)
	}

	var after database.Post
	if err := db.First(&after, before.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if after.Title != "Updated Title" {
		t.Errorf("title %q", after.Title)
	}
	if after.AuthorID != before.AuthorID {
		t.Errorf("edit changed the author: %d -> %d", before.AuthorID, after.AuthorID)
	}
	if after.Date != before.Date {
		t.Errorf("edit changed the date: %q -> %q", before.Date, after.Date)
	}
}

func TestDeletePostConfirmAndCascade(t *testing.T) {
	h, db := newTestSite(t)

	registerUser(t, h, "alice", "alice@example.com", "pw1")
	cookie := loginUser(t, h, "alice@example.com", "pw1")
	createPost(t, h, cookie, "Doomed Post")

	var post database.Post
	if err := db.First(&post).Error; err != nil {
		t.Fatalf("load post: %v", err)
	}
	doPost(t, h, fmt.Sprintf("/post/%d", post.ID), url.Values{"comment": {"soon gone"}}, cookie)

	// GET renders a confirmation page instead of deleting anything
	w := doGet(t, h, fmt.Sprintf("/delete-post/%d", post.ID), cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm page code %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Are you sure") {
		t.Errorf("confirmation page missing prompt")
	}

	w = doPost(t, h, fmt.Sprintf("/delete-post/%d", post.ID), url.Values{}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("delete code %d", w.Code)
	}

	var postCount, commentCount int64
	if err := db.Model(&database.Post{}).Count(&postCount).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if err := db.Model(&database.Comment{}).Count(&commentCount).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if postCount != 0 {
		t.Errorf("post count %d, want 0", postCount)
	}
	if commentCount != 0 {
		t.Errorf("comment count %d, want 0", commentCount)
	}
}
