package dbConverter

import (
	"github.com/dokyun-kim/gorich/internal/model"
	"github.com/dokyun-kim/gorich/internal/model/dbModel"
)

func ConvertTransaction(dbTx dbModel.Transaction) model.Transaction {
	return model.Transaction{
		ID:                dbTx.ID,
		Date:              dbTx.Date,
		Country:           dbTx.Country,
		Symbol:            dbTx.Symbol,
		Type:              model.TradeType(dbTx.Type),
		Quantity:          dbTx.Quantity,
		Price:             dbTx.Price,
		TotalPricePaid:    dbTx.TotalPricePaid,
		TotalPricePaidKRW: dbTx.TotalPricePaidKRW,
	}
}

func ConvertDividend(dbDiv dbModel.Dividend) model.DividendRecord {
	return model.DividendRecord{
		ID:       dbDiv.ID,
		Date:     dbDiv.Date,
		Symbol:   dbDiv.Symbol,
		Dividend: dbDiv.Dividend,
		Currency: dbDiv.Currency,
	}
}

func ConvertCash(dbCash dbModel.Cash) model.CashBalance {
	return model.CashBalance{
		Currency: dbCash.Currency,
		Amount:   dbCash.Amount,
	}
}

func ConvertAssetSnapshot(dbSnap dbModel.AssetSnapshot) model.AssetSnapshot {
	return model.AssetSnapshot{
		Date:   dbSnap.Date,
		Amount: dbSnap.Amount,
	}
}
