package customers

import (
	"github.com/m04kA/SMC-SalonBooking/pkg/validation"
)

// SearchLimit максимальное число клиентов в результатах поиска
const SearchLimit = 10

// minSearchQuery запросы короче возвращают пустой результат
const minSearchQuery = 2

// Service сервис клиентов: сопоставление по телефону, поиск и администрирование
type Service struct {
	repo      CustomerRepository
	txManager TransactionManager
	validator *validation.Validator
	logger    Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(repo CustomerRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		validator: validation.New(),
		logger:    logger,
	}
}
