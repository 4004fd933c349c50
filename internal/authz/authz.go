package authz

import "studio/internal/domain/model"

// Actor はリクエスト毎の操作主体。セッションロード時に一度だけ解決し、
// 以降はこの値を引数で引き回す（グローバルな「現在のユーザー」は持たない）。
type Actor struct {
	UserID int64
	Role   model.Role
	//executorプロフィールを持つ場合のみ非nil
	ExecutorID *int64
}

// 未ログインのactor。
func Anonymous() Actor {
	return Actor{Role: model.RoleAnonymous}
}

func (a Actor) Authenticated() bool {
	return a.Role != model.RoleAnonymous && a.UserID > 0
}

func (a Actor) Staff() bool {
	return a.Role == model.RoleStaff
}

func (a Actor) HasExecutorProfile() bool {
	return a.ExecutorID != nil
}

// カタログ（サービス）とポートフォリオの書き込み権限。
// スタッフまたはexecutorプロフィール持ち。読み取りは誰でも可。
func CanManageCatalog(a Actor) bool {
	return a.Authenticated() && (a.Staff() || a.HasExecutorProfile())
}

// ニュースの書き込み権限。スタッフのみ。
func CanManageNews(a Actor) bool {
	return a.Authenticated() && a.Staff()
}

// 所有オブジェクトの変更権限。ownerIDは対象のowner欄
// （user / client / sender のいずれか）。行が孤児（owner NULL）ならスタッフのみ。
func CanMutateOwned(a Actor, ownerID *int64) bool {
	if !a.Authenticated() {
		return false
	}
	if a.Staff() {
		return true
	}
	return ownerID != nil && *ownerID == a.UserID
}

// 注文の閲覧権限。クライアント・担当実施者・スタッフ。
func CanViewOrder(a Actor, o model.Order) bool {
	if !a.Authenticated() {
		return false
	}
	if a.Staff() {
		return true
	}
	if o.ClientID != nil && *o.ClientID == a.UserID {
		return true
	}
	return a.ExecutorID != nil && o.ExecutorID != nil && *o.ExecutorID == *a.ExecutorID
}

// 注文ステータスを進める権限。担当実施者またはスタッフ。
func CanAdvanceOrder(a Actor, o model.Order) bool {
	if !a.Authenticated() {
		return false
	}
	if a.Staff() {
		return true
	}
	return a.ExecutorID != nil && o.ExecutorID != nil && *o.ExecutorID == *a.ExecutorID
}

// 注文キャンセルの権限。クライアント本人またはスタッフ。
// クライアントが取り消せるのは"new"のみ（判定はusecase側）。
func CanCancelOrder(a Actor, o model.Order) bool {
	if !a.Authenticated() {
		return false
	}
	if a.Staff() {
		return true
	}
	return o.ClientID != nil && *o.ClientID == a.UserID
}

// ポートフォリオの変更権限。作品の実施者本人またはスタッフ。
func CanMutatePortfolio(a Actor, p model.Portfolio) bool {
	if !a.Authenticated() {
		return false
	}
	if a.Staff() {
		return true
	}
	return a.ExecutorID != nil && p.ExecutorID == *a.ExecutorID
}

// メッセージの参加者（送信者か受信者）か。
func IsMessageParticipant(a Actor, m model.Message) bool {
	if !a.Authenticated() {
		return false
	}
	if m.SenderID != nil && *m.SenderID == a.UserID {
		return true
	}
	return m.ReceiverID != nil && *m.ReceiverID == a.UserID
}
