package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell-blog/appserver/internal/services"
	"github.com/inkwell-blog/appserver/internal/store"
	"github.com/inkwell-blog/appserver/types"
	"github.com/rs/zerolog"
)

// PostHandler serves the post pages: the index, individual posts with
// their comment threads, and the admin-only write/edit/delete flows.
type PostHandler struct {
	content *services.ContentService
	renderer
}

func NewPostHandler(content *services.ContentService, logger zerolog.Logger) *PostHandler {
	return &PostHandler{
		content:  content,
		renderer: renderer{logger: logger},
	}
}

// PostRouter registers post routes on the given router. The router is
// expected to already run LoadIdentity.
func PostRouter(r chi.Router, handler *PostHandler) {
	r.Get("/", handler.Home)
	r.Get("/post/{postID}", handler.ShowPost)
	r.With(RequireUser).Post("/post/{postID}", handler.AddComment)

	r.With(RequireAdmin).Get("/new-post", handler.NewPostForm)
	r.With(RequireAdmin).Post("/new-post", handler.CreatePost)
	r.With(RequireAdmin).Get("/edit-post/{postID}", handler.EditPostForm)
	r.With(RequireAdmin).Post("/edit-post/{postID}", handler.UpdatePost)
	r.With(RequireAdmin).Get("/delete/{postID}", handler.DeletePost)
}

type indexPage struct {
	Posts []types.Post
}

type postPage struct {
	Post     types.Post
	Comments []types.Comment
	Error    string
}

type postForm struct {
	IsEdit bool
	PostID int
	Input  services.PostInput
	Error  string
}

func (h *PostHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.content.ListPosts(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index.html", indexPage{Posts: posts})
}

func (h *PostHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	h.showPost(w, r, "")
}

func (h *PostHandler) showPost(w http.ResponseWriter, r *http.Request, commentError string) {
	id, err := parsePostID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.content.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	comments, err := h.content.ListComments(r.Context(), id)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	status := http.StatusOK
	if commentError != "" {
		status = http.StatusBadRequest
	}
	h.render(w, r, status, "post.html", postPage{
		Post:     post,
		Comments: comments,
		Error:    commentError,
	})
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	caller := IdentityFromContext(r.Context())
	_, err = h.content.AddComment(r.Context(), caller, id, r.PostFormValue("text"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		case errors.Is(err, store.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, services.ErrValidation):
			h.showPost(w, r, err.Error())
		default:
			h.serverError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
}

func (h *PostHandler) NewPostForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "make-post.html", postForm{})
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	input := postInputFromForm(r)

	caller := IdentityFromContext(r.Context())
	_, err := h.content.CreatePost(r.Context(), caller, input)
	if err != nil {
		h.handlePostWriteError(w, r, err, postForm{Input: input})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PostHandler) EditPostForm(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.content.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "make-post.html", postForm{
		IsEdit: true,
		PostID: post.ID,
		Input: services.PostInput{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			Body:     post.Body,
			ImgURL:   post.ImgURL,
		},
	})
}

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	input := postInputFromForm(r)

	caller := IdentityFromContext(r.Context())
	post, err := h.content.UpdatePost(r.Context(), caller, id, input)
	if err != nil {
		h.handlePostWriteError(w, r, err, postForm{IsEdit: true, PostID: id, Input: input})
		return
	}

	http.Redirect(w, r, "/post/"+strconv.Itoa(post.ID), http.StatusSeeOther)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	caller := IdentityFromContext(r.Context())
	if err := h.content.DeletePost(r.Context(), caller, id); err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		case errors.Is(err, store.ErrNotFound):
			http.NotFound(w, r)
		default:
			h.serverError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PostHandler) handlePostWriteError(w http.ResponseWriter, r *http.Request, err error, form postForm) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, store.ErrDuplicateTitle):
		form.Error = "A post with this title already exists."
		h.render(w, r, http.StatusConflict, "make-post.html", form)
	case errors.Is(err, services.ErrValidation):
		form.Error = err.Error()
		h.render(w, r, http.StatusBadRequest, "make-post.html", form)
	default:
		h.serverError(w, r, err)
	}
}

func postInputFromForm(r *http.Request) services.PostInput {
	return services.PostInput{
		Title:    r.PostFormValue("title"),
		Subtitle: r.PostFormValue("subtitle"),
		Body:     r.PostFormValue("body"),
		ImgURL:   r.PostFormValue("img_url"),
	}
}

func parsePostID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "postID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid post id")
	}
	return id, nil
}
