package economy

import (
	"context"

	"SanguoRich/internal/game/domain"
	"SanguoRich/internal/game/event"
	"SanguoRich/modules/kit/logx"

	"go.uber.org/zap"
)

// TryBuyCityAndPublish 购买城池并发布 city.bought。
// 业务拒绝返回 false；发布失败时回滚买家并返回发布错误。
func (m *Manager) TryBuyCityAndPublish(ctx context.Context, meta event.Meta, board *domain.BoardState, buyerID, cityID string, priceMultiplier float64) (bool, error) {
	if board == nil {
		return false, domain.ErrInvalidArgument.WithData("field", "board")
	}
	city, ok := board.TryGetCity(cityID)
	if !ok {
		return false, domain.ErrUnknownCity.WithData("city_id", cityID)
	}
	price, err := city.GetPrice(priceMultiplier, board.Rules())
	if err != nil {
		return false, err
	}

	snap := captureBoard(board, buyerID)
	bought, err := board.TryBuyCity(buyerID, cityID, priceMultiplier)
	if err != nil || !bought {
		return false, err
	}

	payload := &event.CityBoughtPayload{GameId: m.gameID, BuyerId: buyerID, CityId: cityID, Price: price}
	if err := m.publish(ctx, m.events.New(event.TypeCityBought, meta, payload)); err != nil {
		return false, rollback(board, snap, err)
	}
	return true, nil
}

// TryPayTollAndPublish 由 payer 向 owner 支付过路费并发布 city.toll_paid。
// owner 必须是该城池当前的唯一主人，否则是调用方错误。
func (m *Manager) TryPayTollAndPublish(ctx context.Context, meta event.Meta, board *domain.BoardState, payerID, ownerID, cityID string, tollMultiplier float64) (domain.TollReceipt, bool, error) {
	if board == nil {
		return domain.TollReceipt{}, false, domain.ErrInvalidArgument.WithData("field", "board")
	}
	payer, ok := board.TryGetPlayer(payerID)
	if !ok {
		return domain.TollReceipt{}, false, domain.ErrUnknownPlayer.WithData("player_id", payerID)
	}
	owner, ok := board.TryGetPlayer(ownerID)
	if !ok {
		return domain.TollReceipt{}, false, domain.ErrUnknownPlayer.WithData("player_id", ownerID)
	}
	city, ok := board.TryGetCity(cityID)
	if !ok {
		return domain.TollReceipt{}, false, domain.ErrUnknownCity.WithData("city_id", cityID)
	}
	actual, found, err := board.TryGetOwnerOfCity(cityID)
	if err != nil {
		return domain.TollReceipt{}, false, err
	}
	if !found || actual.ID() != ownerID {
		return domain.TollReceipt{}, false, domain.ErrInvalidArgument.
			WithMsgf("%s 不是城池 %s 的主人", ownerID, cityID).
			WithData("owner_id", ownerID).WithData("city_id", cityID)
	}

	snap := captureBoard(board, payerID, ownerID)
	receipt, paid, err := payer.TryPayTollTo(owner, city, tollMultiplier, board.Rules(), board.Treasury())
	if err != nil || !paid {
		return domain.TollReceipt{}, false, err
	}

	payload := &event.CityTollPaidPayload{
		GameId:           m.gameID,
		PayerId:          receipt.PayerID,
		OwnerId:          receipt.OwnerID,
		CityId:           receipt.CityID,
		Amount:           receipt.Amount,
		OwnerAmount:      receipt.OwnerAmount,
		TreasuryOverflow: receipt.TreasuryOverflow,
		Bankrupt:         receipt.Bankrupt,
	}
	if err := m.publish(ctx, m.events.New(event.TypeCityTollPaid, meta, payload)); err != nil {
		return domain.TollReceipt{}, false, rollback(board, snap, err)
	}

	m.reportCapped(ctx, ownerID, "toll", receipt.TreasuryOverflow)
	if receipt.Bankrupt {
		logx.ReportBizWithLoggerContext(ctx, m.log, logx.NewBizLog("economy.toll", "bankrupt", "付不起过路费，玩家出局"),
			zap.String("game_id", m.gameID),
			zap.String("player_id", payerID),
			zap.String("city_id", cityID),
		)
	}
	return receipt, true, nil
}
