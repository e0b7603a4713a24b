package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"autix_backend/internal/apperr"
	"autix_backend/internal/authz"
	"autix_backend/internal/inquiry"
	"autix_backend/internal/repository"
	"autix_backend/internal/search"
	"autix_backend/internal/ws"
	"autix_backend/middleware"
	"autix_backend/models"
)

type InquiryHandler struct {
	Inquiries repository.InquiryRepository
	Authz     *authz.Checker
	Notifier  ws.Notifier
	now       func() time.Time
}

func NewInquiryHandler(inquiries repository.InquiryRepository, checker *authz.Checker, notifier ws.Notifier) *InquiryHandler {
	return &InquiryHandler{Inquiries: inquiries, Authz: checker, Notifier: notifier, now: time.Now}
}

// CreateInquiry - POST /api/inquiries
func (h *InquiryHandler) CreateInquiry(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	buyerID, err := h.Authz.ResolveBuyerID(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	req := middleware.Body[models.CreateInquiryRequest](c)
	inq := &models.Inquiry{
		BuyerID:  buyerID,
		DealerID: req.DealerID,
		CarID:    req.CarID,
		Subject:  req.Subject,
		Message:  req.Message,
		Status:   models.InquiryStatusNew,
	}
	if err := h.Inquiries.Create(c.UserContext(), inq); err != nil {
		return apperr.Wrap(err, "create inquiry")
	}

	created, err := h.Inquiries.GetByID(c.UserContext(), inq.ID)
	if err != nil {
		return apperr.Wrap(err, "reload inquiry")
	}
	if created.Dealer != nil {
		h.Notifier.NotifyUser(created.Dealer.UserID, ws.Event{Type: ws.EventInquiryCreated, Data: created})
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("Inquiry sent successfully", created))
}

// GetSentInquiries - GET /api/inquiries/sent
func (h *InquiryHandler) GetSentInquiries(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	buyerID, err := h.Authz.ResolveBuyerID(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	f := middleware.Query[search.InquiryFilter](c)
	list, total, err := h.Inquiries.ListByBuyer(c.UserContext(), buyerID, f)
	if err != nil {
		return apperr.Wrap(err, "list sent inquiries")
	}
	return c.JSON(models.SuccessResponse("", fiber.Map{
		"inquiries":  list,
		"pagination": models.NewPagination(f.Page.Page, f.Page.Limit, total),
	}))
}

// GetReceivedInquiries - GET /api/inquiries/received
func (h *InquiryHandler) GetReceivedInquiries(c *fiber.Ctx) error {
	claims := middleware.MustCurrentUser(c)
	dealerID, err := h.Authz.ResolveDealerID(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	f := middleware.Query[search.InquiryFilter](c)
	list, total, err := h.Inquiries.ListByDealer(c.UserContext(), dealerID, f)
	if err != nil {
		return apperr.Wrap(err, "list received inquiries")
	}
	return c.JSON(models.SuccessResponse("", fiber.Map{
		"inquiries":  list,
		"pagination": models.NewPagination(f.Page.Page, f.Page.Limit, total),
	}))
}

// GetInquiry - GET /api/inquiries/:id
func (h *InquiryHandler) GetInquiry(c *fiber.Ctx) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	claims := middleware.MustCurrentUser(c)

	side := authz.ResourceInquiryAsBuyer
	if claims.UserType == models.UserTypeDealer {
		side = authz.ResourceInquiryAsDealer
	}
	if err := h.Authz.AssertOwnsResource(c.UserContext(), claims.UserID, id, side); err != nil {
		return err
	}

	inq, err := h.Inquiries.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.From(err, "Inquiry not found")
	}
	return c.JSON(models.SuccessResponse("", inq))
}

// UpdateInquiryStatus - PUT /api/inquiries/:id/status
func (h *InquiryHandler) UpdateInquiryStatus(c *fiber.Ctx) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	claims := middleware.MustCurrentUser(c)
	if err := h.Authz.AssertOwnsResource(c.UserContext(), claims.UserID, id, authz.ResourceInquiryAsDealer); err != nil {
		return err
	}

	inq, err := h.Inquiries.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.From(err, "Inquiry not found")
	}

	req := middleware.Body[models.UpdateInquiryStatusRequest](c)
	if err := inquiry.Transition(inq.Status, req.Status); err != nil {
		return apperr.Validation(transitionMessages(inq.Status, req.Status, err)...)
	}

	var respondedAt *time.Time
	if req.Status == models.InquiryStatusResponded {
		now := h.now().UTC()
		respondedAt = &now
	}
	if err := h.Inquiries.UpdateStatus(c.UserContext(), id, req.Status, req.Response, respondedAt); err != nil {
		return apperr.Wrap(err, "update inquiry status")
	}

	updated, err := h.Inquiries.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.Wrap(err, "reload inquiry")
	}
	if updated.Buyer != nil {
		h.Notifier.NotifyUser(updated.Buyer.UserID, ws.Event{Type: ws.EventInquiryStatusChanged, Data: updated})
	}
	return c.JSON(models.SuccessResponse("Inquiry status updated", updated))
}

// DeleteInquiry - DELETE /api/inquiries/:id
func (h *InquiryHandler) DeleteInquiry(c *fiber.Ctx) error {
	id, err := middleware.ParamID(c, "id")
	if err != nil {
		return err
	}
	claims := middleware.MustCurrentUser(c)
	if err := h.Authz.AssertOwnsResource(c.UserContext(), claims.UserID, id, authz.ResourceInquiryAsBuyer); err != nil {
		return err
	}

	inq, err := h.Inquiries.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.From(err, "Inquiry not found")
	}
	if err := inquiry.CheckBuyerDelete(inq.Status); err != nil {
		return apperr.Validation("Only new inquiries can be deleted")
	}

	if err := h.Inquiries.SoftDelete(c.UserContext(), id); err != nil {
		return apperr.Wrap(err, "delete inquiry")
	}
	return c.JSON(models.SuccessResponse("Inquiry deleted successfully", nil))
}

func transitionMessages(from, to models.InquiryStatus, err error) []string {
	if errors.Is(err, inquiry.ErrInvalidStatus) {
		return []string{"Status must be one of: new, responded, closed"}
	}
	msgs := []string{"Cannot change inquiry status from " + string(from) + " to " + string(to)}
	next := inquiry.NextStatuses(from)
	if len(next) == 0 {
		return append(msgs, "Inquiry is "+string(from)+" and cannot change status")
	}
	allowed := make([]string, len(next))
	for i, s := range next {
		allowed[i] = string(s)
	}
	return append(msgs, "Allowed next status: "+strings.Join(allowed, ", "))
}
