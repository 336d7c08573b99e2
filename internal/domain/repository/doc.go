// Package repository define los contratos del record store.
//
// Estas interfaces son independientes del almacenamiento subyacente. Las
// implementaciones concretas viven en internal/store/adapters/ (memory, pg).
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────┐
//	│     Services / TableStatus / AuthGate               │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│        domain/repository (interfaces)               │
//	│   BusinessRepository, OrderRepository, Staff...     │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	               ┌────────┴────────┐
//	               ▼                 ▼
//	        ┌─────────────┐   ┌─────────────┐
//	        │  adapters/  │   │  adapters/  │
//	        │   memory    │   │     pg      │
//	        └─────────────┘   └─────────────┘
//
// Convenciones:
//   - El tenant se pasa explícitamente en cada método de partición
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go
package repository
