package spend_broadcaster

//go:generate moq -pkg mocks -out ./mocks/spend_store_mock.go ./store/ SpendStore

//go:generate moq -pkg mocks -out ./mocks/node_client_mock.go . NodeClient

//go:generate moq -pkg mocks -out ./mocks/message_queue_client_mock.go . MessageQueueClient

//go:generate moq -pkg mocks -out ./mocks/runner_mock.go . Runner

//go:generate moq -pkg mocks -out ./mocks/health_watch_server_mock.go . HealthWatchServer
