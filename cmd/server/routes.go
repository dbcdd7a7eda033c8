package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"pox-ledger.backend/internal/interfaces/http/handlers"
	"pox-ledger.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	walletHandler   *handlers.WalletHandler
	paymentHandler  *handlers.PaymentHandler
	ledgerHandler   *handlers.LedgerHandler
	escrowHandler   *handlers.EscrowHandler
	anchorHandler   *handlers.AnchorHandler
	contractHandler *handlers.ContractHandler
	appAccess       gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Wallet routes
		wallets := v1.Group("/wallets")
		{
			wallets.POST("", d.walletHandler.CreateWallet)
			wallets.GET("", d.walletHandler.ListWallets)
			wallets.GET("/:id/balance", d.walletHandler.GetBalance)
			wallets.GET("/:id/transactions", d.walletHandler.ListTransactions)
			wallets.POST("/:id/credit", d.appAccess, d.walletHandler.Credit)
		}

		// Signed payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("", middleware.IdempotencyMiddleware(), d.paymentHandler.SubmitPayment)
			payments.GET("", d.paymentHandler.ListPayments)
			payments.GET("/:id", d.paymentHandler.GetPayment)
		}

		// Block chain routes
		blocks := v1.Group("/blocks")
		{
			blocks.GET("", d.ledgerHandler.ListBlocks)
			blocks.POST("/seal", d.appAccess, d.ledgerHandler.SealBlock)
		}

		// Escrow routes
		escrows := v1.Group("/escrows")
		{
			escrows.POST("", d.escrowHandler.CreateEscrow)
			escrows.GET("", d.escrowHandler.ListEscrows)
			escrows.GET("/:id", d.escrowHandler.GetEscrow)
			escrows.POST("/:id/release", middleware.IdempotencyMiddleware(), d.escrowHandler.ReleaseEscrow)
		}

		// Anchor routes
		anchors := v1.Group("/anchors")
		{
			anchors.POST("", d.appAccess, d.anchorHandler.AnchorBlocks)
			anchors.GET("", d.anchorHandler.ListAnchors)
			anchors.GET("/:id", d.anchorHandler.GetAnchor)
		}

		// Contract routes
		contracts := v1.Group("/contracts")
		{
			contracts.POST("", d.contractHandler.CreateContract)
			contracts.GET("", d.contractHandler.ListContracts)
			contracts.POST("/accept", d.contractHandler.AcceptContract)
			contracts.POST("/deploy", middleware.IdempotencyMiddleware(), d.contractHandler.DeployContract)
			contracts.GET("/:hash", d.contractHandler.GetContract)
		}
	}
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
