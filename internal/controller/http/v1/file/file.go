package file

import (
	"net/http"

	"timetrack/backend/foundation/web"
	"timetrack/backend/internal/service"
)

const uploadFolder = "absence-files"

type Controller struct {
	uploader *service.Uploader
}

func NewController(uploader *service.Uploader) *Controller {
	return &Controller{uploader}
}

// Upload stores the multipart file and returns the public URL the client
// attaches to an absence request.
func (fc Controller) Upload(c *web.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
	}

	if err := service.ValidateFile(file); err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
	}

	url, err := fc.uploader.Upload(c.Ctx, file, uploadFolder)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusInternalServerError))
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]string{
			"file_url": url,
		},
		"status": true,
	}, http.StatusOK)
}
