// Package api serves the admin panel's JSON API.
//
//	@title						Mongo Admin API
//	@version					1.0
//	@description				Multi-tenant administration API for MongoDB
//	@BasePath					/
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						mongoadmin_session
package api
