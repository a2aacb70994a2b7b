// Package http 暴露村庄指令与查询的 HTTP 接口，所有写操作
// 只入队延时任务，结算由后台工人完成。
package http

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"AgeOfTribes/internal/app"
	"AgeOfTribes/internal/game"
	"AgeOfTribes/internal/interfaces/http/dto"
	"AgeOfTribes/internal/job"
	"AgeOfTribes/internal/shared/transport"
	"AgeOfTribes/modules/kit/logx"
)

// ReportReader 报表查询端，存储在 MongoDB。
type ReportReader interface {
	ListByPlayer(ctx context.Context, playerID int64, limit int64) ([]*app.BattleReport, error)
}

type GameHandler struct {
	svc     *app.GameService
	uow     app.UnitOfWorkProvider
	reports ReportReader
	log     logx.Logger
}

func NewGameHandler(svc *app.GameService, uow app.UnitOfWorkProvider, reports ReportReader, log logx.Logger) *GameHandler {
	return &GameHandler{svc: svc, uow: uow, reports: reports, log: log}
}

func (h *GameHandler) RegisterRoutes(group *gin.RouterGroup) {
	armyGroup := group.Group("/army")
	armyGroup.POST("/attack", h.Attack)
	armyGroup.POST("/scout", h.Scout)
	armyGroup.POST("/reinforce", h.Reinforce)
	armyGroup.POST("/recall", h.Recall)
	armyGroup.POST("/release", h.Release)

	villageGroup := group.Group("/village")
	villageGroup.POST("/train", h.Train)
	villageGroup.POST("/upgrade", h.Upgrade)
	villageGroup.POST("/send-resources", h.SendResources)
	villageGroup.GET("/:id/queue", h.Queue)

	group.GET("/player/:id/reports", h.Reports)
}

func (h *GameHandler) Attack(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AttackReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	units, ok := toTroopSet(req.Units)
	if !ok {
		h.fail(c, transport.InvalidParam, "兵种向量超长")
		return
	}
	mode, ok := parseMode(req.Mode)
	if !ok {
		h.fail(c, transport.InvalidParam, "未知进攻方式")
		return
	}

	got, err := h.svc.AttackVillage(ctx, app.AttackVillageCmd{
		PlayerID:        req.PlayerID,
		FromVillageID:   req.FromVillageID,
		TargetVillageID: req.TargetVillageID,
		Units:           units,
		WithHero:        req.WithHero,
		Mode:            mode,
		CatapultSlots:   req.CatapultSlots,
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, enqueued(got))
}

func (h *GameHandler) Scout(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ScoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	units, ok := toTroopSet(req.Units)
	if !ok {
		h.fail(c, transport.InvalidParam, "兵种向量超长")
		return
	}

	got, err := h.svc.ScoutVillage(ctx, app.ScoutVillageCmd{
		PlayerID:        req.PlayerID,
		FromVillageID:   req.FromVillageID,
		TargetVillageID: req.TargetVillageID,
		Units:           units,
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, enqueued(got))
}

func (h *GameHandler) Reinforce(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReinforceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	units, ok := toTroopSet(req.Units)
	if !ok {
		h.fail(c, transport.InvalidParam, "兵种向量超长")
		return
	}

	got, err := h.svc.ReinforceVillage(ctx, app.ReinforceVillageCmd{
		PlayerID:        req.PlayerID,
		FromVillageID:   req.FromVillageID,
		TargetVillageID: req.TargetVillageID,
		Units:           units,
		WithHero:        req.WithHero,
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, enqueued(got))
}

func (h *GameHandler) Recall(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RecallReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	units, ok := toTroopSet(req.Units)
	if !ok {
		h.fail(c, transport.InvalidParam, "兵种向量超长")
		return
	}

	got, err := h.svc.RecallTroops(ctx, app.RecallTroopsCmd{
		PlayerID: req.PlayerID,
		ArmyID:   req.ArmyID,
		Units:    units,
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, enqueued(got))
}

func (h *GameHandler) Release(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReleaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	units, ok := toTroopSet(req.Units)
	if !ok {
		h.fail(c, transport.InvalidParam, "兵种向量超长")
		return
	}

	got, err := h.svc.ReleaseReinforcements(ctx, app.ReleaseReinforcementsCmd{
		PlayerID:  req.PlayerID,
		VillageID: req.VillageID,
		ArmyID:    req.ArmyID,
		Units:     units,
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, enqueued(got))
}

func (h *GameHandler) Train(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TrainReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	got, err := h.svc.TrainUnits(ctx, app.TrainUnitsCmd{
		PlayerID:  req.PlayerID,
		VillageID: req.VillageID,
		UnitIndex: req.UnitIndex,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, enqueued(got))
}

func (h *GameHandler) Upgrade(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpgradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	got, err := h.svc.UpgradeBuilding(ctx, app.UpgradeBuildingCmd{
		PlayerID:  req.PlayerID,
		VillageID: req.VillageID,
		Slot:      req.Slot,
		Building:  game.BuildingType(req.Building),
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, enqueued(got))
}

func (h *GameHandler) SendResources(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SendResourcesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	got, err := h.svc.SendResources(ctx, app.SendResourcesCmd{
		PlayerID:      req.PlayerID,
		FromVillageID: req.FromVillageID,
		ToVillageID:   req.ToVillageID,
		Cargo: game.Resources{
			Lumber: req.Lumber,
			Clay:   req.Clay,
			Iron:   req.Iron,
			Crop:   req.Crop,
		},
	})
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, enqueued(got))
}

// Queue 列出村庄的未决任务，可按 type 过滤（可重复传参）。
func (h *GameHandler) Queue(c *gin.Context) {
	ctx := c.Request.Context()

	villageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.fail(c, transport.InvalidParam, "村庄 id 有误")
		return
	}
	var types []job.TaskType
	for _, raw := range c.QueryArray("type") {
		t := job.TaskType(raw)
		if !t.Valid() {
			h.fail(c, transport.InvalidParam, "未知任务类型")
			return
		}
		types = append(types, t)
	}

	uow, err := h.uow.Begin(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	defer uow.Rollback()

	jobs, err := uow.Jobs().ListByVillage(ctx, villageID, types...)
	if err != nil {
		h.error(ctx, c, err)
		return
	}

	views := make([]dto.JobView, 0, len(jobs))
	for _, j := range jobs {
		if j.Status != job.StatusPending && j.Status != job.StatusProcessing {
			continue
		}
		views = append(views, dto.JobView{
			ID:       j.ID,
			Type:     string(j.Type),
			Status:   string(j.Status),
			DueAt:    j.DueAt,
			Attempts: j.Attempts,
		})
	}
	h.ok(c, views)
}

func (h *GameHandler) Reports(c *gin.Context) {
	ctx := c.Request.Context()

	playerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.fail(c, transport.InvalidParam, "玩家 id 有误")
		return
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	reports, err := h.reports.ListByPlayer(ctx, playerID, limit)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, reports)
}

func (h *GameHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *GameHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *GameHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg := HandleError(ctx, err)
	h.fail(c, code, msg)
}

func enqueued(e *app.Enqueued) dto.EnqueuedResp {
	return dto.EnqueuedResp{JobID: e.JobID, ResolveAt: e.ResolveAt}
}

func toTroopSet(in []uint32) (game.TroopSet, bool) {
	var out game.TroopSet
	if len(in) > game.TroopCount {
		return out, false
	}
	copy(out[:], in)
	return out, true
}

func parseMode(raw string) (game.AttackMode, bool) {
	switch raw {
	case "", "normal":
		return game.ModeNormal, true
	case "raid":
		return game.ModeRaid, true
	default:
		return game.ModeNormal, false
	}
}
