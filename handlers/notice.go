package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"shiftnote-backend/firebase"
	"shiftnote-backend/models"
	"shiftnote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type NoticeHandler struct {
	DB      *gorm.DB
	Storage firebase.StorageClient
}

// ListNotices returns notices for one store together with the ones addressed to every store.
// Without store_id, single-store employees see their own store and everyone else sees all.
func (h *NoticeHandler) ListNotices(c *gin.Context) {
	storeID := c.Query("store_id")
	if storeID == "" {
		if u := currentCaller(c); (u.Role == models.RoleWorker || u.Role == models.RoleManager) && isScheduleStore(u.StoreID) {
			storeID = u.StoreID
		}
	}
	if storeID != "" && !models.IsValidNoticeStore(storeID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_id must be one of: store1, store2, all"})
		return
	}

	query := h.DB.Order("created_at DESC")
	if isScheduleStore(storeID) {
		query = query.Where("store_id IN ?", []string{storeID, models.StoreAll})
	}

	var notices []models.Notice
	if err := query.Find(&notices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notices"})
		return
	}
	c.JSON(http.StatusOK, notices)
}

func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	notice := models.Notice{
		Title:    strings.TrimSpace(c.PostForm("title")),
		Content:  strings.TrimSpace(c.PostForm("content")),
		Author:   currentCaller(c).Name,
		StoreID:  c.DefaultPostForm("store_id", models.StoreAll),
		Priority: c.DefaultPostForm("priority", models.PriorityNormal),
	}

	switch {
	case notice.Title == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	case len([]rune(notice.Title)) > 100:
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must be at most 100 characters"})
		return
	case notice.Content == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	case !models.IsValidNoticeStore(notice.StoreID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_id must be one of: store1, store2, all"})
		return
	case !models.IsValidPriority(notice.Priority):
		c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be one of: normal, important, urgent"})
		return
	}

	var images []*multipartImage
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["images"]
		if len(files) > utils.MaxNoticeImages {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d images are allowed", utils.MaxNoticeImages)})
			return
		}
		for _, fh := range files {
			if err := utils.ValidateFileUpload(fh); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			img, err := readNoticeImage(fh)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			images = append(images, img)
		}
	}

	if len(images) > 0 && h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
		return
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := h.Storage.UploadNoticeImage(c.Request.Context(), bytes.NewReader(img.Data), img.Filename, img.ContentType)
		if err != nil {
			log.Error().Err(err).Str("file", img.Filename).Msg("upload notice image")
			h.deleteImages(c, urls)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
			return
		}
		urls = append(urls, url)
	}
	notice.ImageURLs = urls

	if err := h.DB.Create(&notice).Error; err != nil {
		h.deleteImages(c, urls)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notice"})
		return
	}

	log.Info().Str("notice_id", notice.ID.String()).Str("store", notice.StoreID).Int("images", len(urls)).Msg("notice created")
	c.JSON(http.StatusCreated, notice)
}

func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notice ID"})
		return
	}

	var notice models.Notice
	if err := h.DB.Where("id = ?", id).First(&notice).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
		return
	}

	if err := h.DB.Delete(&notice).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notice"})
		return
	}

	h.deleteImages(c, notice.ImageURLs)
	c.JSON(http.StatusOK, gin.H{"message": "Notice deleted"})
}

// deleteImages removes stored objects; failures are logged and otherwise ignored.
func (h *NoticeHandler) deleteImages(c *gin.Context, urls []string) {
	if h.Storage == nil {
		return
	}
	for _, url := range urls {
		objectPath, err := utils.ExtractObjectPath(url)
		if err != nil {
			continue
		}
		if err := h.Storage.DeleteFile(c.Request.Context(), objectPath); err != nil {
			log.Warn().Err(err).Str("object", objectPath).Msg("failed to delete notice image")
		}
	}
}

type multipartImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// readNoticeImage loads an upload and re-encodes it through utils.NormalizeImage.
func readNoticeImage(fh *multipart.FileHeader) (*multipartImage, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file")
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, utils.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file")
	}
	if len(raw) > utils.MaxUploadSize {
		return nil, fmt.Errorf("file size exceeds maximum of %d bytes", utils.MaxUploadSize)
	}

	norm, err := utils.NormalizeImage(raw)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename))
	return &multipartImage{Filename: base + norm.Ext, ContentType: norm.ContentType, Data: norm.Data}, nil
}
