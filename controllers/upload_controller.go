package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/choudharyperfumes/storefront/utils"
	"github.com/gin-gonic/gin"
)

var uploadFolders = map[string]bool{"products": true, "banners": true}

// UploadImage stores one image and returns its public URL. Nothing is stored
// unless the file passes the size and type checks.
func (a *App) UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// leave room for the multipart envelope around the file
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.Validator.MaxSize()+1<<20)

		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File too large. Maximum size is %dMB.", a.Validator.MaxSize()>>20)})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
			return
		}

		folder := strings.ToLower(strings.TrimSpace(c.PostForm("folder")))
		if folder == "" {
			folder = "products"
		}
		if !uploadFolders[folder] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "folder must be products or banners"})
			return
		}

		contentType, ext, err := a.Validator.ValidateFile(fh)
		if err != nil {
			if errors.Is(err, utils.ErrFileTooLarge) || errors.Is(err, utils.ErrInvalidFileType) {
				c.JSON(http.StatusBadRequest, gin.H{"error": strings.ToUpper(err.Error()[:1]) + err.Error()[1:]})
				return
			}
			log.Printf("POST /api/upload: validate: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Upload failed"})
			return
		}

		src, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}
		defer src.Close()

		filename := fmt.Sprintf("%s-%d%s", utils.SafeFileBase(fh.Filename), a.now().UnixMilli(), ext)
		objectName := folder + "/" + filename

		imageURL, err := a.Bucket.Put(ctx, objectName, contentType, src)
		if err != nil {
			log.Printf("POST /api/upload: put %s: %v", objectName, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL, "filename": filename})
	}
}
