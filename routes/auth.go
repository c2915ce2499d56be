package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Vinay0726/Eventra/middlewares"
	"github.com/Vinay0726/Eventra/models"
	"github.com/Vinay0726/Eventra/utils"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password" binding:"required,min=6"`
}

func (d *deps) register(c *gin.Context, repo models.AccountRepository, role utils.Role) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	a := models.Account{Name: req.Name, Email: req.Email, Mobile: req.Mobile, Password: req.Password}
	if err := repo.Create(c.Request.Context(), &a); err != nil {
		fail(c, err)
		return
	}

	token, err := utils.GenerateToken(a.Email, a.ID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not authenticate account."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    a.ID,
		"name":  a.Name,
		"email": a.Email,
		"token": token,
		"role":  role,
	})
}

// POST /auth/register/user
func (d *deps) registerUser(c *gin.Context) {
	d.register(c, d.Users, utils.RoleUser)
}

// POST /auth/register/organizer
func (d *deps) registerOrganizer(c *gin.Context) {
	d.register(c, d.Organizers, utils.RoleOrganizer)
}

// POST /auth/login — one endpoint for all three roles; the role string is
// resolved into the closed set before any lookup runs.
func (d *deps) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	role, ok := utils.ParseRole(req.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role."})
		return
	}

	a, err := d.accountsFor(role).ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials."})
		return
	}

	token, err := utils.GenerateToken(a.Email, a.ID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not authenticate account."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    a.ID,
		"name":  a.Name,
		"email": a.Email,
		"token": token,
		"role":  role,
	})
}

func (d *deps) accountsFor(role utils.Role) models.AccountRepository {
	switch role {
	case utils.RoleOrganizer:
		return d.Organizers
	case utils.RoleAdmin:
		return d.Admins
	default:
		return d.Users
	}
}

/* ---------------- profiles ---------------- */

// ownerOrAdmin allows the account itself and any admin through.
func ownerOrAdmin(c *gin.Context, id int64, want utils.Role) bool {
	p, ok := middlewares.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
		return false
	}
	if p.Role == utils.RoleAdmin {
		return true
	}
	if p.Role != want || p.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden."})
		return false
	}
	return true
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id."})
		return 0, false
	}
	return id, true
}

func (d *deps) getProfile(c *gin.Context, repo models.AccountRepository, role utils.Role) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if !ownerOrAdmin(c, id, role) {
		return
	}

	a, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (d *deps) updateProfile(c *gin.Context, repo models.AccountRepository, role utils.Role) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if !ownerOrAdmin(c, id, role) {
		return
	}

	var req struct {
		Name   string `json:"name" binding:"required"`
		Email  string `json:"email" binding:"required,email"`
		Mobile string `json:"mobile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	a := models.Account{ID: id, Name: req.Name, Email: req.Email, Mobile: req.Mobile}
	if err := repo.Update(c.Request.Context(), &a); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated.", "account": a})
}

// GET /auth/user/:id
func (d *deps) getUserProfile(c *gin.Context) {
	d.getProfile(c, d.Users, utils.RoleUser)
}

// PUT /auth/user/:id
func (d *deps) updateUserProfile(c *gin.Context) {
	d.updateProfile(c, d.Users, utils.RoleUser)
}

// GET /auth/organizer/:id
func (d *deps) getOrganizerProfile(c *gin.Context) {
	d.getProfile(c, d.Organizers, utils.RoleOrganizer)
}

// PUT /auth/organizer/:id
func (d *deps) updateOrganizerProfile(c *gin.Context) {
	d.updateProfile(c, d.Organizers, utils.RoleOrganizer)
}

/* ---------------- admin user management ---------------- */

// GET /users
func (d *deps) listUsers(c *gin.Context) {
	users, err := d.Users.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// PUT /users/:id
func (d *deps) updateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name   string `json:"name" binding:"required"`
		Email  string `json:"email" binding:"required,email"`
		Mobile string `json:"mobile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	a := models.Account{ID: id, Name: req.Name, Email: req.Email, Mobile: req.Mobile}
	if err := d.Users.Update(c.Request.Context(), &a); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated.", "user": a})
}

// DELETE /users/:id
func (d *deps) deleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := d.Users.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted."})
}
