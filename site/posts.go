package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quill/constants"
	"quill/database"
	"quill/templates"

	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"
)

func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	var posts []database.Post
	result := s.db.Preload("Author").
		Order("created_at DESC").
		Limit(constants.MAX_POSTS_TO_SHOW).
		Find(&posts)
	if result.Error != nil {
		http.Error(w, "Error fetching posts", http.StatusInternalServerError)
		return
	}

	isAdmin := false
	if user := CurrentUser(r); user != nil {
		isAdmin = user.IsAdmin
	}

	s.renderPage(w, r, "Home", templates.HomePage(posts, isAdmin))
}

func (s *Site) About(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "About", templates.AboutPage())
}

func (s *Site) Contact(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "Contact", templates.ContactPage())
}

// postFromURL loads the post addressed by the {postID} route parameter.
// A nil post with a nil error means not found.
func (s *Site) postFromURL(r *http.Request) (*database.Post, error) {
	postID, err := strconv.ParseUint(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		return nil, nil
	}
	return database.PostByID(s.db, uint(postID))
}

func (s *Site) ViewPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.postFromURL(r)
	if err != nil {
		http.Error(w, "Error fetching post", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderPage(w, r, post.Title, templates.PostPage(*post, CurrentUser(r) != nil))

	case http.MethodPost:
		user := CurrentUser(r)
		if user == nil {
			http.Redirect(w, r, loginRedirectURL("You need to be logged in if you want to post a comment.", ""), http.StatusSeeOther)
			return
		}

		body := strings.TrimSpace(r.FormValue("comment"))
		if body == "" {
			http.Error(w, "Comment cannot be empty", http.StatusBadRequest)
			return
		}

		comment := database.Comment{
			AuthorID: user.ID,
			PostID:   post.ID,
			Body:     body,
		}
		if result := s.db.Create(&comment); result.Error != nil {
			http.Error(w, "Error posting comment", http.StatusInternalServerError)
			return
		}

		// back to the post so the new comment is visible
		http.Redirect(w, r, fmt.Sprintf("/post/%d", post.ID), http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func buildPostFromFormRequest(r *http.Request) (database.Post, error) {
	user := CurrentUser(r)
	if user == nil {
		return database.Post{}, errors.New("user not signed in")
	}

	title := strings.TrimSpace(r.FormValue("title"))
	subtitle := strings.TrimSpace(r.FormValue("subtitle"))
	imageURL := strings.TrimSpace(r.FormValue("img_url"))
	body := r.FormValue("body")
	tags := r.FormValue("tags")

	if title == "" || strings.TrimSpace(body) == "" {
		return database.Post{}, errors.New("title and content are required")
	}
	if len(body) > constants.MAX_POST_LENGTH {
		return database.Post{}, fmt.Errorf("post body too long, it must be less than %d characters", constants.MAX_POST_LENGTH)
	}

	tagList := []string{}
	for _, tag := range strings.Split(tags, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tagList = append(tagList, trimmed)
		}
	}
	tagsJSON, err := json.Marshal(tagList)
	if err != nil {
		return database.Post{}, errors.New("failed to parse post tags")
	}

	return database.Post{
		AuthorID: user.ID,
		Title:    title,
		Subtitle: subtitle,
		Body:     body,
		ImageURL: imageURL,
		Tags:     datatypes.JSON(tagsJSON),
	}, nil
}

func (s *Site) CreatePost(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderPage(w, r, "New Post", templates.PostFormPage("/create-post", nil, ""))

	case http.MethodPost:
		newPost, err := buildPostFromFormRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			s.renderPage(w, r, "New Post", templates.PostFormPage("/create-post", nil, "Error creating post: "+err.Error()))
			return
		}

		existing, err := database.PostByTitle(s.db, newPost.Title)
		if err != nil {
			http.Error(w, "Error verifying if post exists: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if existing != nil {
			w.WriteHeader(http.StatusBadRequest)
			s.renderPage(w, r, "New Post", templates.PostFormPage("/create-post", nil, "A post with the same title already exists."))
			return
		}

		newPost.Date = time.Now().Format(constants.POST_DATE_LAYOUT)

		if result := s.db.Create(&newPost); result.Error != nil {
			http.Error(w, "Error creating post", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Site) EditPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.postFromURL(r)
	if err != nil {
		http.Error(w, "Error fetching post", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	action := fmt.Sprintf("/edit-post/%d", post.ID)

	switch r.Method {
	case http.MethodGet:
		s.renderPage(w, r, "Edit Post", templates.PostFormPage(action, post, ""))

	case http.MethodPost:
		newPostData, err := buildPostFromFormRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			s.renderPage(w, r, "Edit Post", templates.PostFormPage(action, post, "Error updating post: "+err.Error()))
			return
		}

		if newPostData.Title != post.Title {
			existing, err := database.PostByTitle(s.db, newPostData.Title)
			if err != nil {
				http.Error(w, "Error verifying if post exists: "+err.Error(), http.StatusInternalServerError)
				return
			}
			if existing != nil {
				w.WriteHeader(http.StatusBadRequest)
				s.renderPage(w, r, "Edit Post", templates.PostFormPage(action, post, "A post with the same title already exists."))
				return
			}
		}

		// content fields only; the author and the original date stay
		post.Title = newPostData.Title
		post.Subtitle = newPostData.Subtitle
		post.Body = newPostData.Body
		post.ImageURL = newPostData.ImageURL
		post.Tags = newPostData.Tags

		if result := s.db.Save(post); result.Error != nil {
			http.Error(w, "Error updating post", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Site) DeletePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.postFromURL(r)
	if err != nil {
		http.Error(w, "Error fetching post", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderPage(w, r, "Delete Post", templates.DeleteConfirmPage(*post))

	case http.MethodPost:
		if err := database.DeletePost(s.db, post); err != nil {
			http.Error(w, "Error deleting post", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
