package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name FeedProvider --dir ../domain/match --output domain/match --outpkg matchmock --filename feed_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PayloadRepository --dir ../domain/match --output domain/match --outpkg matchmock --filename payload_repository_mock.go
