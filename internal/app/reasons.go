package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 业务拒绝 reason（服务内枚举），接口层统一映射为客户端错误码。
	ReasonVillageNotOwned    = NewReason("VILLAGE_NOT_OWNED", "村庄不属于该玩家")
	ReasonArmyNotOwned       = NewReason("ARMY_NOT_OWNED", "军队不属于该玩家")
	ReasonTargetIsSelf       = NewReason("TARGET_IS_SELF", "目标不能是本村")
	ReasonNoScoutsSelected   = NewReason("NO_SCOUTS_SELECTED", "侦察指令未包含侦察兵")
	ReasonTooManyCataTargets = NewReason("TOO_MANY_CATA_TARGETS", "投石目标最多两个")
	ReasonUnitNotResearched  = NewReason("UNIT_NOT_RESEARCHED", "兵种尚未研发")
	ReasonArmyNotGarrisoned  = NewReason("ARMY_NOT_GARRISONED", "军队未在该村驻防")
)

var (
	// 技术错误 reason（服务内枚举），用于日志与排障。
	ReasonUowBeginFail     = NewReason("UOW_BEGIN_FAIL", "事务开启失败")
	ReasonUowCommitFail    = NewReason("UOW_COMMIT_FAIL", "事务提交失败")
	ReasonVillageReadFail  = NewReason("VILLAGE_READ_FAIL", "村庄读取失败")
	ReasonArmyReadFail     = NewReason("ARMY_READ_FAIL", "军队读取失败")
	ReasonJobWriteFail     = NewReason("JOB_WRITE_FAIL", "任务写入失败")
	ReasonReportWriteFail  = NewReason("REPORT_WRITE_FAIL", "战报写入失败")
	ReasonPayloadCodecFail = NewReason("PAYLOAD_CODEC_FAIL", "任务负载编解码失败")
)
