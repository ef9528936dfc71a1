package clients

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Nogthings/befosa-software/internal/apierror"
	"github.com/Nogthings/befosa-software/internal/audit"
	"github.com/Nogthings/befosa-software/internal/auth"
	"github.com/Nogthings/befosa-software/internal/database"
	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email,max=150"`
	Phone   string `json:"phone" validate:"max=50"`
	City    string `json:"city" validate:"max=100"`
	RFC     string `json:"rfc" validate:"max=20"`
	CURP    string `json:"curp" validate:"max=20"`
	Address string `json:"address" validate:"max=255"`
}

func (r *ClientRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.City = strings.TrimSpace(r.City)
	r.RFC = strings.ToUpper(strings.TrimSpace(r.RFC))
	r.CURP = strings.ToUpper(strings.TrimSpace(r.CURP))
	r.Address = strings.TrimSpace(r.Address)
}

func (r *ClientRequest) apply(c *models.Client) {
	c.Name = r.Name
	c.Email = r.Email
	c.Phone = r.Phone
	c.City = r.City
	c.RFC = r.RFC
	c.CURP = r.CURP
	c.Address = r.Address
}

// ClientPatch is the PUT body. Only fields present in the JSON are changed.
type ClientPatch struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	City    *string `json:"city"`
	RFC     *string `json:"rfc"`
	CURP    *string `json:"curp"`
	Address *string `json:"address"`
}

func requestFrom(c *models.Client) ClientRequest {
	return ClientRequest{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		City:    c.City,
		RFC:     c.RFC,
		CURP:    c.CURP,
		Address: c.Address,
	}
}

// merge overlays the present fields onto req and returns their column names.
func (p *ClientPatch) merge(req *ClientRequest) []string {
	var columns []string
	set := func(dst *string, src *string, column string) {
		if src != nil {
			*dst = *src
			columns = append(columns, column)
		}
	}
	set(&req.Name, p.Name, "name")
	set(&req.Email, p.Email, "email")
	set(&req.Phone, p.Phone, "phone")
	set(&req.City, p.City, "city")
	set(&req.RFC, p.RFC, "rfc")
	set(&req.CURP, p.CURP, "curp")
	set(&req.Address, p.Address, "address")
	return columns
}

func parseBody(c *fiber.Ctx) (*ClientRequest, error) {
	var body ClientRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	body.normalize()
	if err := apierror.Validate(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func findClient(db *gorm.DB, c *fiber.Ctx) (*models.Client, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid client id")
	}

	var client models.Client
	err = db.WithContext(c.UserContext()).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Client not found")
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GET /api/clients
func ListClientsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clients := make([]models.Client, 0)
		if err := db.WithContext(c.UserContext()).Order("created_at DESC").Find(&clients).Error; err != nil {
			return err
		}
		return c.JSON(clients)
	}
}

// POST /api/clients
func CreateClientHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := parseBody(c)
		if err != nil {
			return err
		}

		var client models.Client
		body.apply(&client)

		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&client).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.CurrentActor(c),
				EntityType:  "client",
				EntityID:    client.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Client created: %s", client.Name),
				After:       client,
			})
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(client)
	}
}

// GET /api/clients/:id
func GetClientHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client, err := findClient(db, c)
		if err != nil {
			return err
		}
		return c.JSON(client)
	}
}

// PUT /api/clients/:id
// Omitted fields keep their current value.
func UpdateClientHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client, err := findClient(db, c)
		if err != nil {
			return err
		}

		var patch ClientPatch
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body := requestFrom(client)
		columns := patch.merge(&body)
		body.normalize()
		if err := apierror.Validate(&body); err != nil {
			return err
		}
		if len(columns) == 0 {
			return c.JSON(client)
		}

		before := *client
		body.apply(client)

		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(client).Select(columns).Updates(client).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.CurrentActor(c),
				EntityType:  "client",
				EntityID:    client.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Client updated: %s", client.Name),
				Before:      before,
				After:       client,
			})
		})
		if err != nil {
			return err
		}
		return c.JSON(client)
	}
}

// DELETE /api/clients/:id
// Clients referenced by an entry or exit are kept.
func DeleteClientHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client, err := findClient(db, c)
		if err != nil {
			return err
		}

		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var refs int64
			if err := tx.Model(&models.Entry{}).Where("client_id = ?", client.ID).Count(&refs).Error; err != nil {
				return err
			}
			if refs == 0 {
				if err := tx.Model(&models.Exit{}).Where("client_id = ?", client.ID).Count(&refs).Error; err != nil {
					return err
				}
			}
			if refs > 0 {
				return clientInUse()
			}

			if err := tx.Delete(client).Error; err != nil {
				if database.IsForeignKeyViolation(err) {
					return clientInUse()
				}
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       auth.CurrentActor(c),
				EntityType:  "client",
				EntityID:    client.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Client deleted: %s", client.Name),
				Before:      client,
			})
		})
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func clientInUse() error {
	return apierror.New(fiber.StatusConflict, "client_in_use", "Client has entries or exits and cannot be deleted")
}
