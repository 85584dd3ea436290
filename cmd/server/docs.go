package main

// @title StawiCover Agency API
// @version 1.0
// @description Insurance agency backend with M-Pesa STK push payments, claims, quotes and consultations
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Authentication endpoints

// @tag.name Payments
// @tag.description M-Pesa STK push payment flow

// @tag.name Claims
// @tag.description Insurance claim endpoints

// @tag.name Health
// @tag.description Health check endpoints
