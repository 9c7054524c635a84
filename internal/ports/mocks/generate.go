//go:generate mockgen -source=../repositories.go      -destination=./mock_repositories.go      -package=mocks
//go:generate mockgen -source=../change_publisher.go  -destination=./mock_change_publisher.go  -package=mocks
//go:generate mockgen -source=../validator.go         -destination=./mock_validator.go         -package=mocks
//go:generate mockgen -source=../kv_store.go          -destination=./mock_kv_store.go          -package=mocks
//go:generate mockgen -source=../logger.go            -destination=./mock_logger.go            -package=mocks
//go:generate mockgen -source=../message_consumer.go  -destination=./mock_message_consumer.go  -package=mocks

package mocks
