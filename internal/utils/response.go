package utils

import "github.com/gofiber/fiber/v2"

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Meta    interface{} `json:"meta,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ViewModel is what a page handler produces: a template name plus its data.
type ViewModel struct {
	View string      `json:"view"`
	Data interface{} `json:"data"`
}

// ErrorView is the data handed to the error template.
type ErrorView struct {
	Status   int    `json:"status"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"message"`
	Detail   string `json:"detail,omitempty"`
	BackLink string `json:"back_link,omitempty"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// OK sends a 200 success payload with optional meta.
func OK(c *fiber.Ctx, data interface{}, message string, meta interface{}) error {
	if message == "" {
		message = "success"
	}
	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
		Meta:    meta,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	return Fail(c, status, message, nil)
}

// Fail sends an error payload with optional details.
func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	if message == "" {
		message = "error"
	}
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
		Details: details,
	})
}

// Render renders view through the configured template engine, or returns the view model as JSON
// when the application runs without one.
func Render(c *fiber.Ctx, status int, view string, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	c.Status(status)
	if c.App().Config().Views != nil {
		return c.Render(view, data)
	}
	return c.JSON(ViewModel{View: view, Data: data})
}

// RenderError renders the error view. The underlying error text is only exposed when exposeDetail is set.
func RenderError(c *fiber.Ctx, status int, message string, err error, exposeDetail bool) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	view := ErrorView{Status: status, Message: message}
	if exposeDetail && err != nil {
		view.Detail = err.Error()
	}
	return Render(c, status, "error", view)
}
