package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"photo-gallery/internal/domain"
	"photo-gallery/internal/storage"
)

// filesField is the multipart field carrying image files.
const filesField = "images"

var errBadForm = errors.New("invalid form data")

func (h *Handler) uploadImages(c *gin.Context) {
	form, err := readImageForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer form.close()

	image, err := h.gallery.Upload(c.Request.Context(), callerID(c), form.category, form.blobs)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":  "Images Uploaded Successfully",
		"data": imageToResponse(*image),
	})
}

func (h *Handler) listAllImages(c *gin.Context) {
	images, err := h.gallery.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, imagesToResponse(images))
}

func (h *Handler) listImages(c *gin.Context) {
	category := domain.Category(c.Query("category"))
	images, err := h.gallery.List(c.Request.Context(), callerID(c), category)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, imagesToResponse(images))
}

func (h *Handler) getImage(c *gin.Context) {
	image, err := h.gallery.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, imageToResponse(*image))
}

func (h *Handler) updateImage(c *gin.Context) {
	form, err := readImageForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer form.close()

	image, err := h.gallery.Update(c.Request.Context(), c.Param("id"), form.category, form.blobs)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":   "Image updated successfully",
		"image": imageToResponse(*image),
	})
}

func (h *Handler) deleteImage(c *gin.Context) {
	if err := h.gallery.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Image deleted successfully"})
}

type imageForm struct {
	category domain.Category
	blobs    []storage.Blob
	closers  []io.Closer
}

func (f *imageForm) close() {
	for _, closer := range f.closers {
		_ = closer.Close()
	}
}

// readImageForm extracts the category and the uploaded files, in submission
// order. Non-multipart bodies may still carry a category as JSON or urlencoded form.
func readImageForm(c *gin.Context) (*imageForm, error) {
	form := &imageForm{}

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var body struct {
			Category string `json:"category" form:"category"`
		}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBind(&body); err != nil {
				return nil, fmt.Errorf("%w: %v", errBadForm, err)
			}
		}
		form.category = domain.Category(body.Category)
		return form, nil
	}

	multipartForm, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadForm, err)
	}
	if values := multipartForm.Value["category"]; len(values) > 0 {
		form.category = domain.Category(values[0])
	}

	for _, header := range multipartForm.File[filesField] {
		blob, file, err := openBlob(header)
		if err != nil {
			form.close()
			return nil, err
		}
		form.blobs = append(form.blobs, blob)
		form.closers = append(form.closers, file)
	}
	return form, nil
}

func openBlob(header *multipart.FileHeader) (storage.Blob, multipart.File, error) {
	file, err := header.Open()
	if err != nil {
		return storage.Blob{}, nil, fmt.Errorf("open uploaded file %s: %w", header.Filename, err)
	}
	return storage.Blob{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, file, nil
}
