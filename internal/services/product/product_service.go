package product

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/campus-bazaar-api/internal/catalog"
	"github.com/rajivgeraev/campus-bazaar-api/internal/config"
	"github.com/rajivgeraev/campus-bazaar-api/internal/db"
	"github.com/rajivgeraev/campus-bazaar-api/internal/models"
	"github.com/rajivgeraev/campus-bazaar-api/internal/utils"
)

// ProductService представляет сервис для работы с товарами
type ProductService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewProductService создает новый экземпляр ProductService
func NewProductService(cfg *config.Config) *ProductService {
	return &ProductService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// productColumns — общий список колонок для выборки товара с категорией
const productColumns = `
	p.id, p.seller_id, p.title, p.description, p.price, p.condition, p.transaction_type,
	p.images, p.category_id, p.views, p.status, p.created_at, p.updated_at,
	c.name
`

// scanProduct сканирует строку выборки товара с присоединенной категорией
func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	var categoryID uuid.NullUUID
	var categoryName pgtype.Text

	err := row.Scan(
		&p.ID,
		&p.SellerID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Condition,
		&p.TransactionType,
		&p.Images,
		&categoryID,
		&p.Views,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
		&categoryName,
	)
	if err != nil {
		return p, err
	}

	if categoryID.Valid {
		p.CategoryID = &categoryID.UUID
		if categoryName.Valid {
			p.Category = &models.Category{ID: categoryID.UUID, Name: categoryName.String}
		}
	}

	if p.Images == nil {
		p.Images = []string{}
	}

	return p, nil
}

// GetProducts возвращает список доступных товаров.
// Выборка одна (status = 'available', сначала новые), дальнейшее сужение
// по критериям выполняется в памяти чистым фильтром каталога.
func (s *ProductService) GetProducts(c fiber.Ctx) error {
	criteria := catalog.Criteria{
		Search:          c.Query("search", ""),
		Category:        c.Query("category", catalog.All),
		Condition:       c.Query("condition", catalog.All),
		TransactionType: c.Query("type", catalog.All),
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.status = 'available'
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		log.Printf("Ошибка запроса товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товаров"})
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		products = append(products, product)
	}

	filtered := catalog.Filter(products, criteria)

	return c.JSON(fiber.Map{
		"products":       filtered,
		"total":          len(filtered),
		"active_filters": catalog.ActiveFilterCount(criteria),
	})
}

// GetProduct возвращает детальную информацию о товаре
func (s *ProductService) GetProduct(c fiber.Ctx) error {
	productID := c.Params("id")

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	product, err := scanProduct(db.Pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`, productUUID))

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
		}
		log.Printf("Ошибка получения товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товара"})
	}

	// Счетчик просмотров обновляется без ожидания результата
	go db.IncrementProductViews(productUUID)

	// Получаем информацию о продавце
	var sellerName pgtype.Text
	err = db.Pool.QueryRow(ctx, `
		SELECT full_name FROM profiles WHERE id = $1
	`, product.SellerID).Scan(&sellerName)

	if err != nil && err != pgx.ErrNoRows {
		log.Printf("Ошибка получения данных продавца: %v", err)
	}

	return c.JSON(fiber.Map{
		"product": product,
		"seller": fiber.Map{
			"id":        product.SellerID,
			"full_name": sellerName.String,
		},
	})
}

// CreateProduct обрабатывает создание нового товара
func (s *ProductService) CreateProduct(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		Title           string   `json:"title"`
		Description     string   `json:"description"`
		Price           float64  `json:"price"`
		Condition       string   `json:"condition"`
		TransactionType string   `json:"transaction_type"`
		Images          []string `json:"images"`
		CategoryID      string   `json:"category_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Валидация обязательных полей
	if requestData.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название обязательно"})
	}

	if requestData.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Цена не может быть отрицательной"})
	}

	if !models.ValidConditions[requestData.Condition] {
		requestData.Condition = "new" // По умолчанию - новое
	}

	if !models.ValidTransactionTypes[requestData.TransactionType] {
		requestData.TransactionType = "sell" // По умолчанию - продажа
	}

	// Категория необязательна, но если указана - должна существовать
	var categoryID *uuid.UUID
	if requestData.CategoryID != "" {
		parsed, err := uuid.Parse(requestData.CategoryID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID категории"})
		}
		categoryID = &parsed
	}

	if requestData.Images == nil {
		requestData.Images = []string{}
	}

	productID := uuid.New()

	ctx, cancel := db.GetContext()
	defer cancel()

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO products (id, seller_id, title, description, price, condition, transaction_type, images, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, productID, userUUID, requestData.Title, requestData.Description, requestData.Price,
		requestData.Condition, requestData.TransactionType, requestData.Images, categoryID)

	if err != nil {
		log.Printf("Ошибка вставки товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения товара"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"product_id": productID,
		"message":    "Товар успешно создан",
	})
}

// GetMyProducts возвращает список товаров текущего пользователя
// (включая проданные)
func (s *ProductService) GetMyProducts(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.seller_id = $1
		ORDER BY p.created_at DESC
	`, userUUID)

	if err != nil {
		log.Printf("Ошибка запроса товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товаров"})
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		products = append(products, product)
	}

	return c.JSON(fiber.Map{
		"products": products,
		"total":    len(products),
	})
}

// checkOwnership проверяет, что товар существует и принадлежит пользователю
func (s *ProductService) checkOwnership(c fiber.Ctx) (uuid.UUID, bool) {
	productID := c.Params("id")
	userIDStr := c.Locals("userID").(string)

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
		return uuid.Nil, false
	}

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
		return uuid.Nil, false
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var sellerID uuid.UUID
	err = db.Pool.QueryRow(ctx, "SELECT seller_id FROM products WHERE id = $1", productUUID).Scan(&sellerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
			return uuid.Nil, false
		}
		log.Printf("Ошибка запроса товара: %v", err)
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товара"})
		return uuid.Nil, false
	}

	// Изменять товар может только его владелец
	if sellerID != userUUID {
		c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "У вас нет доступа к этому товару"})
		return uuid.Nil, false
	}

	return productUUID, true
}

// UpdateProduct обновляет существующий товар
func (s *ProductService) UpdateProduct(c fiber.Ctx) error {
	var requestData struct {
		Title           string   `json:"title"`
		Description     string   `json:"description"`
		Price           float64  `json:"price"`
		Condition       string   `json:"condition"`
		TransactionType string   `json:"transaction_type"`
		Images          []string `json:"images"`
		CategoryID      string   `json:"category_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название обязательно"})
	}

	if requestData.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Цена не может быть отрицательной"})
	}

	if !models.ValidConditions[requestData.Condition] {
		requestData.Condition = "new"
	}

	if !models.ValidTransactionTypes[requestData.TransactionType] {
		requestData.TransactionType = "sell"
	}

	var categoryID *uuid.UUID
	if requestData.CategoryID != "" {
		parsed, err := uuid.Parse(requestData.CategoryID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID категории"})
		}
		categoryID = &parsed
	}

	if requestData.Images == nil {
		requestData.Images = []string{}
	}

	productUUID, ok := s.checkOwnership(c)
	if !ok {
		return nil
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	_, err := db.Pool.Exec(ctx, `
		UPDATE products
		SET title = $1, description = $2, price = $3, condition = $4, transaction_type = $5,
			images = $6, category_id = $7, updated_at = NOW()
		WHERE id = $8
	`, requestData.Title, requestData.Description, requestData.Price, requestData.Condition,
		requestData.TransactionType, requestData.Images, categoryID, productUUID)

	if err != nil {
		log.Printf("Ошибка обновления товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления товара"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"product_id": productUUID,
		"message":    "Товар успешно обновлен",
	})
}

// UpdateProductStatus переключает статус товара (available/sold)
func (s *ProductService) UpdateProductStatus(c fiber.Ctx) error {
	var requestData struct {
		Status string `json:"status"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if !models.ValidStatuses[requestData.Status] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус товара"})
	}

	productUUID, ok := s.checkOwnership(c)
	if !ok {
		return nil
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	_, err := db.Pool.Exec(ctx, `
		UPDATE products SET status = $1, updated_at = NOW() WHERE id = $2
	`, requestData.Status, productUUID)

	if err != nil {
		log.Printf("Ошибка обновления статуса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления статуса"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"product_id": productUUID,
		"status":     requestData.Status,
	})
}

// DeleteProduct удаляет товар
func (s *ProductService) DeleteProduct(c fiber.Ctx) error {
	productUUID, ok := s.checkOwnership(c)
	if !ok {
		return nil
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Записи избранного удаляются каскадом на уровне схемы
	_, err := db.Pool.Exec(ctx, "DELETE FROM products WHERE id = $1", productUUID)
	if err != nil {
		log.Printf("Ошибка удаления товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления товара"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар успешно удален",
	})
}
