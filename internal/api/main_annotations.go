// @title           bookmarks API
// @version         1.0
// @description     Bookmark records with validation and XSS sanitization. Authenticate with the configured API token.
// @BasePath        /api
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and the API token. Example: "Bearer bm_xxx"
package api
