package repository

type CatalogUnitOfWork interface {
	Transaction(fn func(servers ServerRepository, tools ToolRepository, params ToolParameterRepository) error) error
}
