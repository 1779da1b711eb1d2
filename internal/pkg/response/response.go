package response

import "github.com/gin-gonic/gin"

// StatusTokenExpired is answered for expired or malformed bearer tokens. A
// nonstandard code the frontend relies on to trigger re-authentication.
const StatusTokenExpired = 498

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Page is the envelope for offset/limit paginated lists.
type Page struct {
	Data   any    `json:"data"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
	Next   *int   `json:"next"`
	Prev   *int   `json:"prev"`
	Total  int64  `json:"total"`
}

func Paginated(c *gin.Context, statusCode int, data any, offset, limit int, total int64) {
	page := Page{
		Data:   data,
		Offset: offset,
		Limit:  limit,
		Total:  total,
	}
	if int64(offset+limit) < total {
		next := offset + limit
		page.Next = &next
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		page.Prev = &prev
	}

	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    page,
	})
}
