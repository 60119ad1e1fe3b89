package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"equity-portfolio-tracker/internal/api/dto"
	"equity-portfolio-tracker/internal/api/repository"
	"equity-portfolio-tracker/internal/entity"
	"equity-portfolio-tracker/internal/valuation"
	"equity-portfolio-tracker/pkg/logger"
	"equity-portfolio-tracker/pkg/utils"

	"gorm.io/datatypes"
)

// HistoryService owns every write to a stock's event history: transactions,
// splits, dividend events and bulk imports. Each write invalidates the
// stock's memoized snapshot, and any change to the split set triggers a full
// re-adjustment of the stock's transactions from their original values.
type HistoryService interface {
	RecordTransaction(ctx context.Context, stockID uint, req *dto.CreateTransactionRequest) (*entity.Transaction, error)
	DeleteTransaction(ctx context.Context, id uint) error
	ApplySplit(ctx context.Context, stockID uint, req *dto.CreateSplitRequest) (*entity.StockSplit, error)
	UpdateSplit(ctx context.Context, splitID uint, req *dto.UpdateSplitRequest) (*entity.StockSplit, error)
	RemoveSplit(ctx context.Context, splitID uint) error
	RecordDividend(ctx context.Context, stockID uint, req *dto.CreateDividendRequest) (*entity.DividendEvent, error)
	BulkImport(ctx context.Context, req *dto.BulkImportRequest) (*dto.ImportJobResponse, error)
}

// NewHistoryService creates a new history service.
func NewHistoryService(
	txRepo repository.TransactionRepository,
	splitRepo repository.StockSplitRepository,
	dividendRepo repository.DividendEventRepository,
	importRepo repository.ImportJobRepository,
	valuationSvc ValuationService,
	logger *logger.Logger,
) HistoryService {
	return &historyService{
		txRepo:       txRepo,
		splitRepo:    splitRepo,
		dividendRepo: dividendRepo,
		importRepo:   importRepo,
		valuationSvc: valuationSvc,
		logger:       logger,
	}
}

type historyService struct {
	txRepo       repository.TransactionRepository
	splitRepo    repository.StockSplitRepository
	dividendRepo repository.DividendEventRepository
	importRepo   repository.ImportJobRepository
	valuationSvc ValuationService
	logger       *logger.Logger
}

// RecordTransaction stores a trade with both its original values and the
// adjusted values derived from the stock's current split history.
func (s *historyService) RecordTransaction(ctx context.Context, stockID uint, req *dto.CreateTransactionRequest) (*entity.Transaction, error) {
	tx, err := s.buildTransaction(stockID, req)
	if err != nil {
		return nil, err
	}

	splits, err := s.splitRepo.FindByStockID(ctx, stockID)
	if err != nil {
		return nil, fmt.Errorf("failed to load splits: %w", err)
	}
	adjusted, err := valuation.AdjustTransactions(
		[]valuation.Transaction{toValuationTransaction(*tx)}, toValuationSplits(splits))
	if err != nil {
		return nil, err
	}
	tx.Quantity = adjusted[0].Quantity
	tx.Price = adjusted[0].Price

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}
	s.valuationSvc.Invalidate(stockID)
	return tx, nil
}

func (s *historyService) DeleteTransaction(ctx context.Context, id uint) error {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.txRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.valuationSvc.Invalidate(tx.StockID)
	return nil
}

// ApplySplit validates the split against the stock's existing split set,
// stores it and re-adjusts every transaction of the stock. Validation fails
// fast: an invalid split is rejected before anything is recomputed.
func (s *historyService) ApplySplit(ctx context.Context, stockID uint, req *dto.CreateSplitRequest) (*entity.StockSplit, error) {
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", valuation.ErrInvalidSplit, req.Date)
	}
	split := &entity.StockSplit{
		StockID:        stockID,
		Date:           date,
		Ratio:          req.Ratio,
		VerifiedSource: req.VerifiedSource,
	}

	existing, err := s.splitRepo.FindByStockID(ctx, stockID)
	if err != nil {
		return nil, fmt.Errorf("failed to load splits: %w", err)
	}
	candidate := append(toValuationSplits(existing), valuation.Split{Date: date, Ratio: req.Ratio})
	if err := valuation.ValidateSplits(candidate); err != nil {
		return nil, err
	}

	if err := s.splitRepo.Create(ctx, split); err != nil {
		return nil, fmt.Errorf("failed to store split: %w", err)
	}
	if err := s.readjustStock(ctx, stockID); err != nil {
		return nil, err
	}
	return split, nil
}

func (s *historyService) UpdateSplit(ctx context.Context, splitID uint, req *dto.UpdateSplitRequest) (*entity.StockSplit, error) {
	split, err := s.splitRepo.FindByID(ctx, splitID)
	if err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", valuation.ErrInvalidSplit, req.Date)
	}

	others, err := s.splitRepo.FindByStockID(ctx, split.StockID)
	if err != nil {
		return nil, fmt.Errorf("failed to load splits: %w", err)
	}
	candidate := []valuation.Split{{Date: date, Ratio: req.Ratio}}
	for _, o := range others {
		if o.ID != splitID {
			candidate = append(candidate, valuation.Split{ID: o.ID, Date: o.Date, Ratio: o.Ratio})
		}
	}
	if err := valuation.ValidateSplits(candidate); err != nil {
		return nil, err
	}

	split.Date = date
	split.Ratio = req.Ratio
	if err := s.splitRepo.Update(ctx, split); err != nil {
		return nil, fmt.Errorf("failed to update split: %w", err)
	}
	if err := s.readjustStock(ctx, split.StockID); err != nil {
		return nil, err
	}
	return split, nil
}

func (s *historyService) RemoveSplit(ctx context.Context, splitID uint) error {
	split, err := s.splitRepo.FindByID(ctx, splitID)
	if err != nil {
		return err
	}
	if err := s.splitRepo.Delete(ctx, splitID); err != nil {
		return err
	}
	return s.readjustStock(ctx, split.StockID)
}

func (s *historyService) RecordDividend(ctx context.Context, stockID uint, req *dto.CreateDividendRequest) (*entity.DividendEvent, error) {
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("bad dividend date %q: %w", req.Date, err)
	}
	if req.Reinvested {
		if !req.DRPShares.Valid || !req.ReinvestmentPrice.Valid {
			return nil, fmt.Errorf("a DRP event needs drp_shares and reinvestment_price")
		}
	} else if !req.AmountPerShare.Valid {
		return nil, fmt.Errorf("a cash dividend needs amount_per_share")
	}

	event := &entity.DividendEvent{
		StockID:           stockID,
		Date:              date,
		AmountPerShare:    req.AmountPerShare,
		DRPShares:         req.DRPShares,
		ReinvestmentPrice: req.ReinvestmentPrice,
		Reinvested:        req.Reinvested,
	}
	if err := s.dividendRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to store dividend event: %w", err)
	}
	s.valuationSvc.Invalidate(stockID)
	return event, nil
}

// BulkImport loads a whole transaction and split history at once, recording
// the attempt as an ImportJob so a failure can be inspected and replayed.
func (s *historyService) BulkImport(ctx context.Context, req *dto.BulkImportRequest) (*dto.ImportJobResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	job := &entity.ImportJob{
		StockID: req.StockID,
		Status:  entity.ImportJobStatusPending,
		Payload: datatypes.JSON(payload),
	}
	if err := s.importRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to record import job: %w", err)
	}

	if err := s.runImport(ctx, req); err != nil {
		if markErr := s.importRepo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			s.logger.Error("Failed to mark import job failed", logger.ErrorField(markErr))
		}
		return &dto.ImportJobResponse{ID: job.ID, Status: string(entity.ImportJobStatusFailed), Error: err.Error()}, err
	}

	if err := s.importRepo.MarkCompleted(ctx, job.ID); err != nil {
		s.logger.Error("Failed to mark import job completed", logger.ErrorField(err))
	}
	return &dto.ImportJobResponse{ID: job.ID, Status: string(entity.ImportJobStatusCompleted)}, nil
}

func (s *historyService) runImport(ctx context.Context, req *dto.BulkImportRequest) error {
	splits := make([]entity.StockSplit, 0, len(req.Splits))
	existing, err := s.splitRepo.FindByStockID(ctx, req.StockID)
	if err != nil {
		return fmt.Errorf("failed to load splits: %w", err)
	}
	candidate := toValuationSplits(existing)
	for _, sr := range req.Splits {
		date, err := utils.ParseDate(sr.Date)
		if err != nil {
			return fmt.Errorf("%w: bad date %q", valuation.ErrInvalidSplit, sr.Date)
		}
		splits = append(splits, entity.StockSplit{
			StockID:        req.StockID,
			Date:           date,
			Ratio:          sr.Ratio,
			VerifiedSource: sr.VerifiedSource,
		})
		candidate = append(candidate, valuation.Split{Date: date, Ratio: sr.Ratio})
	}
	if err := valuation.ValidateSplits(candidate); err != nil {
		return err
	}

	txs := make([]entity.Transaction, 0, len(req.Transactions))
	for i := range req.Transactions {
		tx, err := s.buildTransaction(req.StockID, &req.Transactions[i])
		if err != nil {
			return err
		}
		txs = append(txs, *tx)
	}

	if err := s.splitRepo.BulkInsert(ctx, splits); err != nil {
		return fmt.Errorf("failed to store splits: %w", err)
	}
	if err := s.txRepo.BulkInsert(ctx, txs); err != nil {
		return fmt.Errorf("failed to store transactions: %w", err)
	}
	return s.readjustStock(ctx, req.StockID)
}

// readjustStock recomputes the adjusted quantity/price of every transaction
// of the stock from the originals against the full split set, then drops the
// memoized snapshot. Always the whole history: a split can be inserted behind
// any previously processed date.
func (s *historyService) readjustStock(ctx context.Context, stockID uint) error {
	txs, err := s.txRepo.FindByStockID(ctx, stockID)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	splits, err := s.splitRepo.FindByStockID(ctx, stockID)
	if err != nil {
		return fmt.Errorf("failed to load splits: %w", err)
	}
	if len(txs) == 0 {
		if len(splits) > 0 {
			s.logger.Warn("Split recorded for a stock with no transactions",
				logger.IntField("stock_id", int(stockID)))
		}
		s.valuationSvc.Invalidate(stockID)
		return nil
	}

	adjusted, err := valuation.AdjustTransactions(toValuationTransactions(txs), toValuationSplits(splits))
	if err != nil {
		return err
	}
	for i := range txs {
		txs[i].Quantity = adjusted[i].Quantity
		txs[i].Price = adjusted[i].Price
	}
	if err := s.txRepo.SaveAdjusted(ctx, txs); err != nil {
		return fmt.Errorf("failed to persist adjusted transactions: %w", err)
	}
	s.valuationSvc.Invalidate(stockID)
	return nil
}

func (s *historyService) buildTransaction(stockID uint, req *dto.CreateTransactionRequest) (*entity.Transaction, error) {
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("bad transaction date %q: %w", req.Date, err)
	}
	txType := entity.TransactionType(strings.ToUpper(req.TransactionType))
	if txType != entity.TransactionTypeBuy && txType != entity.TransactionTypeSell {
		return nil, fmt.Errorf("unknown transaction type %q", req.TransactionType)
	}
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("transaction quantity must be positive")
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("transaction price must not be negative")
	}

	quantity := req.Quantity
	if txType == entity.TransactionTypeSell {
		quantity = quantity.Neg()
	}
	return &entity.Transaction{
		StockID:          stockID,
		Date:             date,
		Quantity:         quantity,
		Price:            req.Price,
		TransactionType:  txType,
		OriginalQuantity: quantity,
		OriginalPrice:    req.Price,
	}, nil
}

func toValuationTransaction(tx entity.Transaction) valuation.Transaction {
	return valuation.Transaction{
		ID:               tx.ID,
		Date:             tx.Date,
		Type:             valuation.TransactionType(tx.TransactionType),
		Quantity:         tx.Quantity,
		Price:            tx.Price,
		OriginalQuantity: tx.OriginalQuantity,
		OriginalPrice:    tx.OriginalPrice,
	}
}
