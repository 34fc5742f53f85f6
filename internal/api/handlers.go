package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/sonic-net/sai-redis-go/internal/pkg/errors"
	"github.com/sonic-net/sai-redis-go/internal/pkg/logger"
	"github.com/sonic-net/sai-redis-go/internal/sai/codec"
	"github.com/sonic-net/sai-redis-go/internal/sai/metadata"
	"github.com/sonic-net/sai-redis-go/internal/sai/pipeline"
	"github.com/sonic-net/sai-redis-go/internal/sai/validator"
)

type handlers struct {
	core   *validator.Core
	tracer *pipeline.Tracer
	ring   *pipeline.RingBuffer
	schema *metadata.Schema
}

func (h *handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderedAttrs maps each attribute's registry name to its canonical
// text form, for JSON responses readers can match against spec.md's own
// attribute names rather than bare numeric ids.
func (h *handlers) renderedAttrs(ot metadata.ObjectType, attrs map[metadata.AttrID]codec.Value) map[string]string {
	out := make(map[string]string, len(attrs))
	for id, v := range attrs {
		name := strconv.Itoa(int(id))
		if meta, ok := h.schema.AttrMeta(ot, id); ok {
			name = meta.Name
		}
		s, err := codec.Serialize(v)
		if err != nil {
			s = "<unserializable>"
		}
		out[name] = s
	}
	return out
}

func (h *handlers) listObjects(c *gin.Context) {
	ot := metadata.ObjectType(c.Param("type"))
	if _, ok := h.schema.ObjectTypeMeta(ot); !ok {
		c.Error(apperrors.NotFound("OBJECT_TYPE_NOT_FOUND", "unknown object type: "+string(ot)))
		return
	}

	keys := h.core.KeysOfType(ot)
	sort.Strings(keys)

	objects := make([]gin.H, 0, len(keys))
	for _, key := range keys {
		attrs, ok := h.core.DumpObject(key)
		if !ok {
			continue
		}
		objects = append(objects, gin.H{
			"key":        key,
			"attributes": h.renderedAttrs(ot, attrs),
		})
	}
	c.JSON(http.StatusOK, gin.H{"type": string(ot), "objects": objects})
}

func (h *handlers) getObject(c *gin.Context) {
	ot := metadata.ObjectType(c.Param("type"))
	if _, ok := h.schema.ObjectTypeMeta(ot); !ok {
		c.Error(apperrors.NotFound("OBJECT_TYPE_NOT_FOUND", "unknown object type: "+string(ot)))
		return
	}

	key := string(ot) + ":" + c.Param("key")
	attrs, ok := h.core.DumpObject(key)
	if !ok {
		c.Error(apperrors.NotFound("OBJECT_NOT_FOUND", "no object at key: "+key))
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "attributes": h.renderedAttrs(ot, attrs)})
}

func (h *handlers) trace(c *gin.Context) {
	n := 200
	if raw := c.Query("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}

	var lines []string
	if h.ring != nil {
		lines = h.ring.Tail(n)
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled": h.tracer != nil && h.tracer.Enabled(),
		"lines":   lines,
	})
}

func (h *handlers) logs(c *gin.Context) {
	n := 200
	if raw := c.Query("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}
	c.JSON(http.StatusOK, gin.H{"entries": logger.RecentWarnings(n)})
}

func (h *handlers) refCount(c *gin.Context) {
	oid, err := strconv.ParseUint(c.Param("oid"), 0, 64)
	if err != nil {
		c.Error(apperrors.BadRequest("INVALID_OID", "oid must be a base-10 or 0x-prefixed integer"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"oid":       oid,
		"ref_count": h.core.RefCountOf(oid),
	})
}

type unitTestEnableRequest struct {
	Enable bool `json:"enable"`
}

func (h *handlers) unitTestEnable(c *gin.Context) {
	var req unitTestEnableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("INVALID_BODY", "expected {\"enable\": true}"))
		return
	}
	if req.Enable {
		h.core.EnableUnitTestMode()
	}
	c.JSON(http.StatusOK, gin.H{"unit_test_mode": h.core.UnitTestModeEnabled()})
}

type allowReadonlySetOnceRequest struct {
	ObjectType string `json:"object_type" binding:"required"`
	AttrID     int32  `json:"attr_id" binding:"required"`
}

func (h *handlers) allowReadonlySetOnce(c *gin.Context) {
	var req allowReadonlySetOnceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("INVALID_BODY", "expected {\"object_type\": ..., \"attr_id\": ...}"))
		return
	}
	if !h.core.UnitTestModeEnabled() {
		c.Error(apperrors.Conflict("UNIT_TEST_MODE_DISABLED", "enable unit-test mode before arming an override"))
		return
	}
	h.core.ArmReadOnlySet(metadata.ObjectType(req.ObjectType), metadata.AttrID(req.AttrID))
	c.JSON(http.StatusOK, gin.H{"armed": true})
}
