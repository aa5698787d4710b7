package handlers

// @title Notes API
// @version 1.0
// @description A small notes service. Every note lives in one collection that is loaded and saved as a whole.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api

// @tag.name notes
// @tag.description Note management operations
