package http

import "github.com/gin-gonic/gin"

const callerSubjectKey = "caller_subject"

func setCaller(c *gin.Context, subject string) {
	c.Set(callerSubjectKey, subject)
}

func callerSubject(c *gin.Context) string {
	value, ok := c.Get(callerSubjectKey)
	if !ok {
		return ""
	}
	subject, _ := value.(string)
	return subject
}
