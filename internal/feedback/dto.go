package feedback

// ArticleRequest is the body of POST /api/v1/articles.
type ArticleRequest struct {
	Article string `json:"article" binding:"required"`
}
