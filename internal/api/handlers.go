package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/amrshaker000/origin-trace/internal/assistant"
	"github.com/amrshaker000/origin-trace/internal/catalog"
	"github.com/amrshaker000/origin-trace/internal/ledger"
	"github.com/amrshaker000/origin-trace/internal/metrics"
	"github.com/amrshaker000/origin-trace/internal/model"
	"github.com/amrshaker000/origin-trace/internal/store"

	"github.com/gin-gonic/gin"
)

// InventoryStore defines the inventory operations handlers need.
type InventoryStore interface {
	ListRecords() ([]model.RawDeviceRecord, error)
	CreateRecord(rec model.RawDeviceRecord) (int, error)
	UpdateRecord(pos int, rec model.RawDeviceRecord) error
	DeleteRecord(pos int) error
}

// ReportClient defines the ledger operations handlers need.
type ReportClient interface {
	GetReport(deviceID int) (*model.DeviceReport, error)
	SubmitReport(deviceID int, report model.DeviceReport) error
}

// ChatAssistant answers free-text shopper questions.
type ChatAssistant interface {
	Greeting() assistant.Response
	Reply(input string) assistant.Response
}

// Handlers contains all API handlers. The catalog reference is swapped
// atomically on reload; every request reads one consistent catalog.
type Handlers struct {
	mu        sync.RWMutex
	catalog   *catalog.Catalog
	inventory InventoryStore
	assistant ChatAssistant
	ledger    ReportClient
	metrics   *metrics.Registry
}

// NewHandlers creates a new handlers instance. ledger may be nil when
// no ledger backend is configured; the report endpoints then answer
// with a service-unavailable error.
func NewHandlers(cat *catalog.Catalog, inventory InventoryStore, chat ChatAssistant, reports ReportClient, reg *metrics.Registry) *Handlers {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	reg.CatalogSize.Set(float64(cat.Len()))
	return &Handlers{
		catalog:   cat,
		inventory: inventory,
		assistant: chat,
		ledger:    reports,
		metrics:   reg,
	}
}

func (h *Handlers) currentCatalog() *catalog.Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// GetDevices returns the filtered, sorted marketplace view
func (h *Handlers) GetDevices(c *gin.Context) {
	q := catalog.Query{
		Text:      c.Query("search"),
		Category:  c.DefaultQuery("category", catalog.CategoryAll),
		Condition: c.DefaultQuery("condition", catalog.ConditionAll),
		Sort:      c.DefaultQuery("sort", catalog.SortNewest),
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		q.MaxPrice = &v
	}

	start := time.Now()
	devices := h.currentCatalog().Search(q)
	h.metrics.SearchesTotal.Inc()
	h.metrics.SearchLatencySec.Observe(time.Since(start).Seconds())

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.JSON(http.StatusOK, gin.H{
		"count":   len(devices),
		"devices": devices,
	})
}

// GetDevice returns a single device by ID
func (h *Handlers) GetDevice(c *gin.Context) {
	id, ok := h.deviceID(c)
	if !ok {
		return
	}

	device, found := h.currentCatalog().LookupByID(id)
	if !found {
		h.metrics.LookupMissTotal.Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	c.JSON(http.StatusOK, device)
}

// CreateDevice appends a raw inspection record to the inventory. The
// catalog serves the session it was built for; the new record becomes
// visible after the next reload.
func (h *Handlers) CreateDevice(c *gin.Context) {
	var rec model.RawDeviceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pos, err := h.inventory.CreateRecord(rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create device"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "device created",
		"position": pos,
	})
}

// UpdateDevice replaces the raw record behind a device ID
func (h *Handlers) UpdateDevice(c *gin.Context) {
	id, ok := h.deviceID(c)
	if !ok {
		return
	}

	var rec model.RawDeviceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.inventory.UpdateRecord(id, rec); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device updated"})
}

// DeleteDevice removes the raw record behind a device ID
func (h *Handlers) DeleteDevice(c *gin.Context) {
	id, ok := h.deviceID(c)
	if !ok {
		return
	}

	if err := h.inventory.DeleteRecord(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device deleted"})
}

// ReloadCatalog rebuilds the catalog from the inventory store. Device
// IDs are reassigned from record positions, so stored references to
// old IDs are only valid within the session that produced them.
func (h *Handlers) ReloadCatalog(c *gin.Context) {
	records, err := h.inventory.ListRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load inventory"})
		return
	}

	rebuilt := catalog.New(records)

	h.mu.Lock()
	h.catalog = rebuilt
	h.mu.Unlock()
	h.metrics.CatalogSize.Set(float64(rebuilt.Len()))

	c.JSON(http.StatusOK, gin.H{
		"message": "catalog reloaded",
		"count":   rebuilt.Len(),
	})
}

// GetCategories returns the distinct catalog categories
func (h *Handlers) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.currentCatalog().Categories(),
	})
}

// GetStats returns catalog statistics
func (h *Handlers) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.currentCatalog().Stats())
}

// Chat answers a shopper question through the assistant rule table
func (h *Handlers) Chat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Message == "" {
		c.JSON(http.StatusOK, h.assistant.Greeting())
		return
	}
	c.JSON(http.StatusOK, h.assistant.Reply(req.Message))
}

// GetDeviceReport proxies the ledger's status report for a device
func (h *Handlers) GetDeviceReport(c *gin.Context) {
	id, ok := h.deviceID(c)
	if !ok {
		return
	}
	if _, found := h.currentCatalog().LookupByID(id); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	if h.ledger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ledger not configured"})
		return
	}

	report, err := h.ledger.GetReport(id)
	if err != nil {
		if errors.Is(err, ledger.ErrNoReport) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no report yet"})
			return
		}
		h.metrics.LedgerErrorTotal.Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// SubmitDeviceReport records a status report for a device on the ledger
func (h *Handlers) SubmitDeviceReport(c *gin.Context) {
	id, ok := h.deviceID(c)
	if !ok {
		return
	}
	if _, found := h.currentCatalog().LookupByID(id); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	if h.ledger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ledger not configured"})
		return
	}

	var report model.DeviceReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if report.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if err := h.ledger.SubmitReport(id, report); err != nil {
		h.metrics.LedgerErrorTotal.Inc()
		c.JSON(http.StatusBadGateway, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "report submitted"})
}

func (h *Handlers) deviceID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device ID"})
		return 0, false
	}
	return id, true
}
