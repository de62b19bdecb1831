package admin

import (
	"fmt"
	"strings"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // office | sales_rep
}

type UserResponse struct {
	ID     uint            `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	Active bool            `json:"active"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Active: u.Active}
}

// POST /api/admin/users (yalnızca süper admin)
// Ofis personeli ve plasiyer hesabı açar; süper admin hesabı buradan açılmaz.
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		if strings.TrimSpace(body.Name) == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, e-posta ve şifre zorunlu")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Şifre en az 8 karakter olmalı")
		}

		role := models.UserRole(body.Role)
		if role != models.RoleOffice && role != models.RoleSalesRep {
			return fiber.NewError(fiber.StatusBadRequest, "Rol 'office' veya 'sales_rep' olmalı")
		}

		var existing models.User
		if err := database.DB.Where("email = ?", body.Email).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu e-posta zaten kayıtlı")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre işlenemedi")
		}

		user := models.User{
			Name:         strings.TrimSpace(body.Name),
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         role,
			Active:       true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		if actorID, err := auth.UserIDFromContext(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      actorID,
				EntityType:  "user",
				EntityID:    user.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Kullanıcı oluşturuldu: %s (%s)", user.Name, user.Role),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(&user))
	}
}

// GET /api/admin/users?role=sales_rep
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.User{})
		if role := c.Query("role"); role != "" {
			dbq = dbq.Where("role = ?", role)
		}

		var users []models.User
		if err := dbq.Order("name asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar listelenemedi")
		}

		res := make([]UserResponse, 0, len(users))
		for i := range users {
			res = append(res, toUserResponse(&users[i]))
		}
		return c.JSON(res)
	}
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
	Active   *bool   `json:"active"`
}

// PUT /api/admin/users/:id
// Pasife alınan kullanıcı giriş yapamaz; geçmiş kayıtları korunur.
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}
		if user.Role == models.RoleSuperAdmin && user.ID != actorID {
			return fiber.NewError(fiber.StatusForbidden, "Süper admin hesabı düzenlenemez")
		}
		before := user

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
			user.Name = strings.TrimSpace(*body.Name)
		}
		if body.Password != nil {
			if len(*body.Password) < 8 {
				return fiber.NewError(fiber.StatusBadRequest, "Şifre en az 8 karakter olmalı")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Şifre işlenemedi")
			}
			user.PasswordHash = string(hash)
		}
		if body.Active != nil {
			if user.ID == actorID && !*body.Active {
				return fiber.NewError(fiber.StatusBadRequest, "Kendi hesabınızı pasife alamazsınız")
			}
			user.Active = *body.Active
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      actorID,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Kullanıcı güncellendi: %s", user.Name),
			Before:      toUserResponse(&before),
			After:       toUserResponse(&user),
		})

		return c.JSON(toUserResponse(&user))
	}
}
